package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/greenbridge-eco/greenbridge/internal/models"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
)

func TestRunnerRunsStagesInOrder(t *testing.T) {
	r := NewRunner()
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		r.Add(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completed := r.Completed()
	if len(completed) != 3 {
		t.Fatalf("expected 3 completed stages, got %v", completed)
	}
	for i, name := range []string{"first", "second", "third"} {
		if order[i] != name || completed[i] != name {
			t.Errorf("stage %d out of order: ran %q, completed %q", i, order[i], completed[i])
		}
	}
}

func TestRunnerStopsAtFirstFailure(t *testing.T) {
	r := NewRunner()
	boom := errors.New("boom")
	ranLast := false

	r.Add("ok", func(ctx context.Context) error { return nil })
	r.Add("fails", func(ctx context.Context) error { return boom })
	r.Add("never", func(ctx context.Context) error {
		ranLast = true
		return nil
	})

	err := r.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped stage error, got %v", err)
	}
	if ranLast {
		t.Error("stage after a failure must not run")
	}
	if completed := r.Completed(); len(completed) != 1 || completed[0] != "ok" {
		t.Errorf("expected only the first stage completed, got %v", completed)
	}
}

func TestRunnerHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner()
	r.Add("skipped", func(ctx context.Context) error {
		t.Error("stage must not run after cancellation")
		return nil
	})

	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCollectStatic(t *testing.T) {
	root := t.TempDir()

	count, err := CollectStatic(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count == 0 {
		t.Fatal("expected at least one asset to be written")
	}

	if _, err := os.Stat(filepath.Join(root, "robots.txt")); err != nil {
		t.Errorf("robots.txt not collected: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "css", "greenbridge.css")); err != nil {
		t.Errorf("stylesheet not collected: %v", err)
	}

	// Re-running overwrites in place without error.
	again, err := CollectStatic(root)
	if err != nil {
		t.Fatalf("unexpected error on rerun: %v", err)
	}
	if again != count {
		t.Errorf("expected %d assets on rerun, got %d", count, again)
	}
}

func TestCollectStatic_NoRoot(t *testing.T) {
	if _, err := CollectStatic(""); err == nil {
		t.Error("expected error for empty root")
	}
}

func TestEnsureAdmin(t *testing.T) {
	users := repo.NewInMemoryUserRepository()

	if err := EnsureAdmin(users, "admin@example.com", "secret-pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	created, err := users.GetByEmail("admin@example.com")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if !created.Active || !created.Verified {
		t.Error("expected admin to be active and verified")
	}

	// A second run leaves the existing account, hash included, untouched.
	if err := EnsureAdmin(users, "admin@example.com", "different-pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	unchanged, _ := users.GetByEmail("admin@example.com")
	if unchanged.PasswordHash != created.PasswordHash {
		t.Error("expected existing admin password to be preserved")
	}
}

func TestEnsureAdmin_Unconfigured(t *testing.T) {
	users := repo.NewInMemoryUserRepository()
	if err := EnsureAdmin(users, "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admins, _ := users.ListByRole(models.RoleAdmin); len(admins) != 0 {
		t.Errorf("expected no admin created, got %d", len(admins))
	}
}
