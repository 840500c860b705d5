package service

import (
	"context"

	"realtime-chat-be/internal/apperror"
	"realtime-chat-be/internal/entity"
	"realtime-chat-be/internal/repository/contract"
	"realtime-chat-be/internal/repository/specification"
	"realtime-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// fakeUserRepository answers specification lookups from an in-memory slice.
type fakeUserRepository struct {
	users     []*entity.User
	createErr error
}

func (r *fakeUserRepository) Create(_ context.Context, user *entity.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, user := range r.users {
		if matchesUser(user, specs) {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var out []*entity.User
	for _, user := range r.users {
		if matchesUser(user, specs) {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepository) FindById(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, user := range r.users {
		if user.Id == id {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.users)), nil
}

func matchesUser(user *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByEmail:
			if user.Email != s.Email {
				return false
			}
		case specification.ByName:
			if user.Name != s.Name {
				return false
			}
		}
	}
	return true
}

// fakeMessageRepository keeps messages in memory with canned failure modes.
type fakeMessageRepository struct {
	messages       []*entity.Message
	correspondents []string
	createErr      error
	deleteErr      error
}

func (r *fakeMessageRepository) Create(_ context.Context, message *entity.Message) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Message, error) {
	for _, m := range r.messages {
		if matchesMessage(m, specs) {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var out []*entity.Message
	for _, m := range r.messages {
		if matchesMessage(m, specs) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepository) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.messages)), nil
}

func (r *fakeMessageRepository) DeleteById(_ context.Context, id uuid.UUID) (*entity.Message, error) {
	if r.deleteErr != nil {
		return nil, r.deleteErr
	}
	for i, m := range r.messages {
		if m.Id == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return m, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (r *fakeMessageRepository) DistinctCorrespondents(_ context.Context, _ string) ([]string, error) {
	return r.correspondents, nil
}

func matchesMessage(m *entity.Message, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByMessageID:
			if m.Id != s.ID {
				return false
			}
		case specification.BroadcastOnly:
			if m.RecipientName != nil {
				return false
			}
		case specification.ByConversationPair:
			if m.RecipientName == nil {
				return false
			}
			forward := m.SenderName == s.UserA && *m.RecipientName == s.UserB
			backward := m.SenderName == s.UserB && *m.RecipientName == s.UserA
			if !forward && !backward {
				return false
			}
		}
	}
	return true
}

// fakeUnitOfWork hands out the fake repositories without transactions.
type fakeUnitOfWork struct {
	users    *fakeUserRepository
	messages *fakeMessageRepository
}

func (u *fakeUnitOfWork) Begin(_ context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                 { return nil }
func (u *fakeUnitOfWork) Rollback() error               { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return u.users
}

func (u *fakeUnitOfWork) MessageRepository() contract.MessageRepository {
	return u.messages
}

type fakeRepositoryFactory struct {
	uow *fakeUnitOfWork
}

func newFakeFactory() *fakeRepositoryFactory {
	return &fakeRepositoryFactory{
		uow: &fakeUnitOfWork{
			users:    &fakeUserRepository{},
			messages: &fakeMessageRepository{},
		},
	}
}

func (f *fakeRepositoryFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// fakeMediaRemover records unlinked descriptor URLs.
type fakeMediaRemover struct {
	removed []string
	err     error
}

func (r *fakeMediaRemover) Remove(url string) error {
	if r.err != nil {
		return r.err
	}
	r.removed = append(r.removed, url)
	return nil
}

// fakePublisher captures bus payloads.
type fakePublisher struct {
	published [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, payload []byte) error {
	p.published = append(p.published, payload)
	return nil
}

// fakeMailer records welcome mails.
type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) SendWelcome(toEmail, _ string) error {
	m.sent = append(m.sent, toEmail)
	return nil
}
