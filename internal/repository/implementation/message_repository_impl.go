package implementation

import (
	"context"
	"errors"

	"realtime-chat-be/internal/apperror"
	"realtime-chat-be/internal/entity"
	"realtime-chat-be/internal/mapper"
	"realtime-chat-be/internal/model"
	"realtime-chat-be/internal/repository/contract"
	"realtime-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MessageMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewMessageMapper(),
	}
}

func (r *MessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	m := r.mapper.MessageToModel(message)
	// GORM wraps the message row and its association rows in one transaction,
	// so readers never see a message without its attachments.
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	var m model.Message
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Media"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MessageToEntity(&m), nil
}

func (r *MessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []*model.Message
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Media"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	messages := make([]*entity.Message, len(models))
	for i, m := range models {
		messages[i] = r.mapper.MessageToEntity(m)
	}
	return messages, nil
}

func (r *MessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MessageRepositoryImpl) DeleteById(ctx context.Context, id uuid.UUID) (*entity.Message, error) {
	var deleted *entity.Message

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Message
		if err := tx.Preload("Media").First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}

		if err := tx.Where("message_id = ?", id).Delete(&model.MessageMedia{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Message{}, "id = ?", id).Error; err != nil {
			return err
		}

		deleted = r.mapper.MessageToEntity(&m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *MessageRepositoryImpl) DistinctCorrespondents(ctx context.Context, identity string) ([]string, error) {
	var names []string
	// Single aggregate query; broadcasts (NULL recipient) never count as a
	// conversation.
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT CASE WHEN sender_name = @me THEN recipient_name ELSE sender_name END AS correspondent
		FROM messages
		WHERE recipient_name IS NOT NULL
		  AND (sender_name = @me OR recipient_name = @me)`,
		map[string]interface{}{"me": identity},
	).Scan(&names).Error
	if err != nil {
		return nil, err
	}

	// Self-addressed messages would surface the identity itself.
	return lo.Filter(names, func(name string, _ int) bool {
		return name != "" && name != identity
	}), nil
}
