/*
Package ports defines the driven ports (interfaces) of the careers bot.

These interfaces decouple the dialogs from the services they depend on, allowing the
bot to run with or without a classifier or knowledge base, and over any storage backend.

# Key Interfaces

  - Classifier: intent/entity classification of an utterance.
  - KnowledgeBase: ranked answers for a question, filtered by category metadata.
  - StringTable: localized display strings.
  - CardRenderer: card templates for the menu and category prompts.
  - StateStore: persistence of conversation State.
  - DistributedLocker: distributed locking for concurrent turns on one conversation.
*/
package ports
