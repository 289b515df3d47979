// Package conversations persists chat conversations.
//
// message_count and last_message_at are derived by the schema from the
// messages table. This package reads them but never writes them; guard
// triggers reject any statement that tries.
//
// last_message_at is the created_at of the most recently inserted message.
// Deleting or moving a message recomputes it as the newest created_at left
// in the conversation, so a message inserted with an older created_at than
// its predecessors sets last_message_at back until the next delete or move.
package conversations
