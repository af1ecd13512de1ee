package attachment

import (
	"context"
	"fmt"
)

// StubStore keeps uploads in memory and can be told to fail with a given
// error a number of times before succeeding.
type StubStore struct {
	Uploaded map[string][]byte
	FailWith error
	Failures int

	calls int
}

func NewStubStore() *StubStore {
	return &StubStore{Uploaded: map[string][]byte{}}
}

func (s *StubStore) Upload(ctx context.Context, name, contentType string, content []byte) (string, error) {
	s.calls++
	if s.FailWith != nil && s.calls <= s.Failures {
		return "", s.FailWith
	}
	s.Uploaded[name] = content
	return fmt.Sprintf("https://storage.example.com/%s", name), nil
}

func (s *StubStore) Calls() int {
	return s.calls
}
