/*
Package dialog implements the bot's conversation state machines.

Each conversation carries a stack of frames (domain.Frame). The innermost frame is
the dialog currently waiting for user input, tagged with the step it is suspended
at. A turn either continues that frame with the new utterance or, when the stack is
empty, begins the root dialog. Dialogs answer with a Result telling the Engine to
wait, push a child, restart themselves or end with a value for their parent.

Two dialogs are registered:

  - Root: greeting, organization menu, delegation and resume.
  - KPMG: question category, free-text question, knowledge-base answer, loop.
*/
package dialog
