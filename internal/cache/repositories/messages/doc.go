// Package messages persists chat messages.
//
// Inserting, deleting or moving a message updates its conversation's
// message_count and last_message_at inside the same statement, so readers
// never see a message without its aggregate. Streaming replies move through
// UpdateContent and UpdateStatus until they reach complete or error.
//
//	m := &models.Message{ConversationID: cid, Role: models.RoleAssistant, Status: models.StatusStreaming}
//	_ = repo.Create(ctx, m)
//	_ = repo.UpdateContent(ctx, m.ID, partial)
//	_ = repo.UpdateStatus(ctx, m.ID, models.StatusComplete)
package messages
