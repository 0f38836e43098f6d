/*
Package careerbot is a careers-advice chat bot for the big four accounting firms.

A conversation is a stack of resumable dialogs persisted per conversation id.
The root dialog greets the user and asks which organization they are interested
in; the KPMG dialog asks for a question category and answers free-text
questions from a knowledge base. An optional classifier recognizes greetings,
organizations, categories and "finish" intents in free text; without one the
bot falls back to validating menu choices by name.

# Usage

	bot, err := careerbot.New(
		careerbot.WithClassifier(luis.New(luisCfg)),
		careerbot.WithKnowledgeBase(kb),
		careerbot.WithStore(redis.NewFromClient(client)),
	)
	if err != nil {
		log.Fatal(err)
	}

	actions, err := bot.Turn(ctx, domain.Activity{
		ConversationID: "c-1",
		UserName:       "Ana",
		Text:           "hello",
	})

Each turn returns domain.ActionRequest values (text, cards, typing indicators
and input requests) for the host to render. The careerbot command hosts the
bot on a console, over HTTP and as an MCP server.
*/
package careerbot
