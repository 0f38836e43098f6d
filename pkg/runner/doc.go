/*
Package runner implements the console loop of the careers bot.

It acts as the bridge between the bot and a terminal or a pipe. The runner
reads one utterance at a time through a pluggable handler, sends it as an
activity and writes back the resulting actions.

# Key Components

  - Runner: the read/turn/write loop, stopped by EOF, exit or a signal.
  - IOHandler: decouples how utterances arrive (text, JSON lines).
  - TextHandler: interactive terminal usage; cards become numbered choices.
  - JSONHandler: one JSON array of actions per turn for scripted hosts.

# Usage

	r := runner.NewRunner(
		runner.WithConversationID("local-1"),
		runner.WithUser("u1", "Ana"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx, bot); err != nil {
		log.Fatal(err)
	}
*/
package runner
