/*
Package domain contains the core models of the careers-advice bot.

It defines the conversation state persisted per conversation, the organizations and
intents understood by the dialogs, the classifier and knowledge-base result shapes,
and the actions a turn asks its host to perform. The package is kept free of I/O so
that adapters and dialogs can share it without import cycles.

# Key Entities

  - State: the persisted snapshot of a conversation (member record plus dialog stack).
  - Frame: one suspended dialog on the stack, tagged with the step it waits in.
  - ConversationMember: what the bot remembers about the user.
  - Classification: one classifier result, with top-intent and entity derivation.
  - ActionRequest: something the host should render (text, card, typing, prompt).
*/
package domain
