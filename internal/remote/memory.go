package remote

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// NewMemoryStore returns a Store backed by in-process maps. It is used in
// tests and by tools that need a remote store without a database.
func NewMemoryStore() *Store {
	return &Store{
		Users:    &memUserStore{recs: map[string]UserRecord{}},
		Posts:    &memPostStore{recs: map[string]PostRecord{}},
		Comments: &memCommentStore{recs: map[string]CommentRecord{}},
		Follows:  &memFollowStore{recs: map[string]FollowRecord{}},
	}
}

type memUserStore struct {
	mu   sync.Mutex
	recs map[string]UserRecord
}

func (s *memUserStore) ListAll(_ context.Context) ([]UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]UserRecord, 0, len(s.recs))
	for _, r := range s.recs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memUserStore) Get(_ context.Context, id string) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.recs[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *memUserStore) Put(_ context.Context, rec UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.ID] = rec
	return nil
}

func (s *memUserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, id)
	return nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) ([]UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []UserRecord
	for _, r := range s.recs {
		if strings.EqualFold(r.Email, email) {
			out = append(out, r)
		}
	}
	return out, nil
}

type memPostStore struct {
	mu   sync.Mutex
	recs map[string]PostRecord
}

func (s *memPostStore) ListAll(_ context.Context) ([]PostRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PostRecord, 0, len(s.recs))
	for _, r := range s.recs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memPostStore) ListOrderedByCreatedAtDesc(_ context.Context) ([]PostRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PostRecord, 0, len(s.recs))
	for _, r := range s.recs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memPostStore) Get(_ context.Context, id string) (*PostRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.recs[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *memPostStore) Put(_ context.Context, rec PostRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.ID] = rec
	return nil
}

func (s *memPostStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, id)
	return nil
}

func (s *memPostStore) UpdateLikes(_ context.Context, id string, likes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.recs[id]; ok {
		r.Likes = likes
		s.recs[id] = r
	}
	return nil
}

type memCommentStore struct {
	mu   sync.Mutex
	recs map[string]CommentRecord
}

func (s *memCommentStore) ListAll(_ context.Context) ([]CommentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CommentRecord, 0, len(s.recs))
	for _, r := range s.recs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memCommentStore) Get(_ context.Context, id string) (*CommentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.recs[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *memCommentStore) Put(_ context.Context, rec CommentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.ID] = rec
	return nil
}

func (s *memCommentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, id)
	return nil
}

func (s *memCommentStore) FindByPostID(_ context.Context, postID string) ([]CommentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []CommentRecord
	for _, r := range s.recs {
		if r.PostID == postID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memFollowStore struct {
	mu   sync.Mutex
	recs map[string]FollowRecord
}

func (s *memFollowStore) ListAll(_ context.Context) ([]FollowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FollowRecord, 0, len(s.recs))
	for _, r := range s.recs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memFollowStore) Get(_ context.Context, id string) (*FollowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.recs[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *memFollowStore) Put(_ context.Context, rec FollowRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.ID] = rec
	return nil
}

func (s *memFollowStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, id)
	return nil
}
