package mapper

import (
	"sort"

	"realtime-chat-be/internal/dto"
	"realtime-chat-be/internal/entity"
	"realtime-chat-be/internal/model"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}

	// Attachment order is part of the message, not of storage order.
	media := make([]model.MessageMedia, len(msg.Media))
	copy(media, msg.Media)
	sort.SliceStable(media, func(i, j int) bool {
		return media[i].Position < media[j].Position
	})

	attachments := make([]entity.MediaAttachment, len(media))
	for i, item := range media {
		attachments[i] = entity.MediaAttachment{
			Filename:     item.Filename,
			OriginalName: item.OriginalName,
			Mimetype:     item.Mimetype,
			Size:         item.Size,
			Url:          item.Url,
		}
	}

	return &entity.Message{
		Id:            msg.Id,
		SenderName:    msg.SenderName,
		RecipientName: msg.RecipientName,
		Text:          msg.Text,
		Media:         attachments,
		Timestamp:     msg.Timestamp,
	}
}

func (m *MessageMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}

	media := make([]model.MessageMedia, len(msg.Media))
	for i, item := range msg.Media {
		media[i] = model.MessageMedia{
			MessageId:    msg.Id,
			Filename:     item.Filename,
			OriginalName: item.OriginalName,
			Mimetype:     item.Mimetype,
			Size:         item.Size,
			Url:          item.Url,
			Position:     i,
		}
	}

	return &model.Message{
		Id:            msg.Id,
		SenderName:    msg.SenderName,
		RecipientName: msg.RecipientName,
		Text:          msg.Text,
		Media:         media,
		Timestamp:     msg.Timestamp,
	}
}

func (m *MessageMapper) MessageToResponse(msg *entity.Message) dto.MessageResponse {
	media := make([]dto.MediaAttachmentPayload, len(msg.Media))
	for i, item := range msg.Media {
		media[i] = dto.MediaAttachmentPayload{
			Filename:     item.Filename,
			OriginalName: item.OriginalName,
			Mimetype:     item.Mimetype,
			Size:         item.Size,
			Url:          item.Url,
		}
	}

	return dto.MessageResponse{
		Id:            msg.Id,
		SenderName:    msg.SenderName,
		RecipientName: msg.RecipientName,
		Text:          msg.Text,
		Media:         media,
		Timestamp:     msg.Timestamp,
	}
}
