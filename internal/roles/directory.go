// Package roles answers "does this email belong to a given partition?",
// which decides where a signed-in user lands.
package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// PartitionParents holds the records of parent accounts. An email absent
// from it belongs to a child account.
const PartitionParents = "parents"

// ErrLookupCanceled reports a lookup that was abandoned before it produced an
// answer: caller cancellation, a deadline, or the backend canceling it.
var ErrLookupCanceled = errors.New("role lookup canceled")

// Directory is a single-shot existence lookup keyed by email.
type Directory interface {
	FindByEmailInPartition(ctx context.Context, partition, email string) (bool, error)
}

// wrapCtxErr marks context cancellation and deadlines with ErrLookupCanceled.
func wrapCtxErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrLookupCanceled, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// StaticDirectory is an in-memory Directory.
type StaticDirectory struct {
	mu      sync.RWMutex
	members map[string]map[string]struct{}
}

// NewStaticDirectory builds a directory from partition → emails.
func NewStaticDirectory(members map[string][]string) *StaticDirectory {
	d := &StaticDirectory{members: make(map[string]map[string]struct{})}
	for partition, emails := range members {
		for _, e := range emails {
			d.Add(partition, e)
		}
	}
	return d
}

func (d *StaticDirectory) Add(partition, email string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.members[partition]
	if !ok {
		set = make(map[string]struct{})
		d.members[partition] = set
	}
	set[strings.ToLower(email)] = struct{}{}
}

func (d *StaticDirectory) FindByEmailInPartition(ctx context.Context, partition, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, wrapCtxErr("static lookup", err)
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.members[partition][strings.ToLower(email)]
	return ok, nil
}
