package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/signupsvc/signup-service/internal/signup"
	"github.com/signupsvc/signup-service/internal/signup/repository"
	"github.com/signupsvc/signup-service/pkg/metrics"
)

// Kind tags the failure returned by Register.
type Kind int

const (
	// KindValidation: name or age missing or falsy. Nothing was written.
	KindValidation Kind = iota + 1
	// KindMalformed: the body is not a JSON object.
	KindMalformed
	// KindStore: the insert itself failed.
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindMalformed:
		return "malformed"
	case KindStore:
		return "store"
	}
	return "unknown"
}

// MsgRequired is the client-facing text of every validation failure.
const MsgRequired = "Name and age are required"

// ErrValidation is wrapped by every KindValidation error.
var ErrValidation = errors.New(MsgRequired)

// Error is the only error type Register returns.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// Result is the successful outcome of Register.
type Result struct {
	ID   string
	User signup.User
}

// Service turns a raw signup payload into one stored user.
type Service struct {
	repo repository.Repository
}

// NewService returns a Service writing through r.
func NewService(r repository.Repository) *Service {
	return &Service{repo: r}
}

// NewMemoryService returns a Service backed by an in-memory repository.
func NewMemoryService() *Service {
	return NewService(repository.NewMemoryRepo())
}

// Register decodes payload, checks that name and age are present and
// inserts {name, age} exactly once. There are no retries: two identical
// payloads produce two records.
func (s *Service) Register(ctx context.Context, payload []byte) (*Result, error) {
	fields, err := decodeObject(payload)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Err: err}
	}

	name, age := fields["name"], fields["age"]
	if !signup.Truthy(name) || !signup.Truthy(age) {
		return nil, &Error{Kind: KindValidation, Err: ErrValidation}
	}

	normName, err := signup.Normalize(name)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Err: fmt.Errorf("name: %w", err)}
	}
	normAge, err := signup.Normalize(age)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Err: fmt.Errorf("age: %w", err)}
	}

	u := signup.User{Name: normName, Age: normAge}
	start := time.Now()
	id, err := s.repo.InsertOne(ctx, &u)
	metrics.StoreInsertSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &Error{Kind: KindStore, Err: err}
	}
	u.ID = id
	return &Result{ID: id, User: u}, nil
}

func decodeObject(payload []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode request body: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("decode request body: unexpected data after JSON value")
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("decode request body: expected a JSON object, got %s", jsonKind(v))
	}
	return obj, nil
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
