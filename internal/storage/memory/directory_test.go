package memory

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/symetrix360/portal-go/internal/core/domain"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	d, err := NewDirectory(domain.DemoIdentities(testNow), WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("NewDirectory() error = %v", err)
	}
	return d
}

func TestNewDirectory_RejectsDuplicateSeeds(t *testing.T) {
	tests := []struct {
		name string
		seed []*domain.Identity
		want error
	}{
		{
			name: "duplicate id",
			seed: []*domain.Identity{{ID: "1", Email: "a@x.com"}, {ID: "1", Email: "b@x.com"}},
			want: domain.ErrIdentityValidation,
		},
		{
			name: "duplicate email",
			seed: []*domain.Identity{{ID: "1", Email: "a@x.com"}, {ID: "2", Email: "A@X.com"}},
			want: domain.ErrIdentityConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewDirectory(tt.seed); !errors.Is(err, tt.want) {
				t.Errorf("NewDirectory() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDirectory_FindByEmail(t *testing.T) {
	d := newTestDirectory(t)

	tests := []struct {
		email  string
		wantID string
		found  bool
	}{
		{"admin@example.com", "1", true},
		{"ADMIN@Example.com", "1", true},
		{"  sarah.tech@example.com ", "5", true},
		{"nobody@x.com", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got, ok := d.FindByEmail(tt.email)
			if ok != tt.found {
				t.Fatalf("FindByEmail(%q) found = %v, want %v", tt.email, ok, tt.found)
			}
			if ok && got.ID != tt.wantID {
				t.Errorf("FindByEmail(%q).ID = %q, want %q", tt.email, got.ID, tt.wantID)
			}
		})
	}
}

func TestDirectory_ListIsSnapshot(t *testing.T) {
	d := newTestDirectory(t)

	list := d.List()
	if len(list) != 6 {
		t.Fatalf("List() len = %d, want 6", len(list))
	}
	for i, want := range []string{"1", "2", "3", "4", "5", "6"} {
		if list[i].ID != want {
			t.Errorf("List()[%d].ID = %q, want %q", i, list[i].ID, want)
		}
	}

	list[0].Name = "mutated"
	if got, _ := d.Get("1"); got.Name != "Admin User" {
		t.Error("mutating List() result changed the directory")
	}
}

func TestDirectory_Create(t *testing.T) {
	d := newTestDirectory(t)

	created, err := d.Create(domain.IdentityPatch{
		Email: domain.StringPtr("new@client.com"),
		Name:  domain.StringPtr("New Client"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID != "7" {
		t.Errorf("ID = %q, want 7", created.ID)
	}
	if created.Role != domain.RoleClient {
		t.Errorf("Role = %q, want client default", created.Role)
	}
	if !created.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want %v", created.CreatedAt, testNow)
	}
	if d.Len() != 7 {
		t.Errorf("Len() = %d, want 7", d.Len())
	}
	if last := d.List()[6]; last.ID != "7" {
		t.Errorf("new identity not appended, last = %q", last.ID)
	}
}

func TestDirectory_CreateDefaultsEmpty(t *testing.T) {
	d := newTestDirectory(t)

	created, err := d.Create(domain.IdentityPatch{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Email != "" || created.Name != "" || created.Role != domain.RoleClient {
		t.Errorf("Create(empty) = %+v", created)
	}
	// Two identities without email do not conflict.
	if _, err := d.Create(domain.IdentityPatch{}); err != nil {
		t.Errorf("second empty Create() error = %v", err)
	}
}

func TestDirectory_IDsNeverReused(t *testing.T) {
	d := newTestDirectory(t)

	if err := d.Delete("6"); err != nil {
		t.Fatal(err)
	}
	a, _ := d.Create(domain.IdentityPatch{Email: domain.StringPtr("a@x.com")})
	if err := d.Delete(a.ID); err != nil {
		t.Fatal(err)
	}
	b, _ := d.Create(domain.IdentityPatch{Email: domain.StringPtr("b@x.com")})

	if a.ID == "6" || b.ID == a.ID {
		t.Errorf("ids reused: a=%s b=%s", a.ID, b.ID)
	}
	if a.ID != "7" || b.ID != "8" {
		t.Errorf("ids = %s, %s; want 7, 8", a.ID, b.ID)
	}
}

func TestDirectory_CreateConflictAndValidation(t *testing.T) {
	d := newTestDirectory(t)

	_, err := d.Create(domain.IdentityPatch{Email: domain.StringPtr("Support@Example.com")})
	if !errors.Is(err, domain.ErrIdentityConflict) {
		t.Errorf("duplicate email error = %v, want ErrIdentityConflict", err)
	}

	_, err = d.Create(domain.IdentityPatch{Role: domain.RolePtr("root")})
	if !errors.Is(err, domain.ErrIdentityValidation) {
		t.Errorf("bad role error = %v, want ErrIdentityValidation", err)
	}
	if d.Len() != 6 {
		t.Errorf("failed creates changed Len() to %d", d.Len())
	}
}

func TestDirectory_Update(t *testing.T) {
	d := newTestDirectory(t)

	updated, err := d.Update("3", domain.IdentityPatch{Name: domain.StringPtr("Renamed")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("Name = %q", updated.Name)
	}
	if updated.Email != "client@example.com" || updated.Role != domain.RoleClient {
		t.Errorf("unpatched fields changed: %+v", updated)
	}

	// Changing email frees the old one and claims the new one.
	if _, err := d.Update("3", domain.IdentityPatch{Email: domain.StringPtr("client2@example.com")}); err != nil {
		t.Fatalf("email Update() error = %v", err)
	}
	if _, ok := d.FindByEmail("client@example.com"); ok {
		t.Error("old email still resolves")
	}
	if got, ok := d.FindByEmail("client2@example.com"); !ok || got.ID != "3" {
		t.Error("new email does not resolve to id 3")
	}

	// Re-submitting the identity's own email is not a conflict.
	if _, err := d.Update("3", domain.IdentityPatch{Email: domain.StringPtr("CLIENT2@example.com")}); err != nil {
		t.Errorf("self email Update() error = %v", err)
	}
}

func TestDirectory_UpdateErrors(t *testing.T) {
	d := newTestDirectory(t)

	tests := []struct {
		name  string
		id    string
		patch domain.IdentityPatch
		want  error
	}{
		{"not found", "999", domain.IdentityPatch{Name: domain.StringPtr("x")}, domain.ErrIdentityNotFound},
		{"email conflict", "3", domain.IdentityPatch{Email: domain.StringPtr("admin@example.com")}, domain.ErrIdentityConflict},
		{"bad role", "3", domain.IdentityPatch{Role: domain.RolePtr("owner")}, domain.ErrIdentityValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.Update(tt.id, tt.patch); !errors.Is(err, tt.want) {
				t.Errorf("Update() error = %v, want %v", err, tt.want)
			}
		})
	}

	if got, _ := d.Get("3"); got.Email != "client@example.com" {
		t.Error("failed update modified the identity")
	}
}

func TestDirectory_Delete(t *testing.T) {
	d := newTestDirectory(t)

	if err := d.Delete("2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := d.Get("2"); ok {
		t.Error("identity still present")
	}
	if _, ok := d.FindByEmail("support@example.com"); ok {
		t.Error("email still indexed")
	}
	if err := d.Delete("2"); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Errorf("second Delete() error = %v, want ErrIdentityNotFound", err)
	}
	if d.Len() != 5 {
		t.Errorf("Len() = %d, want 5", d.Len())
	}
}

func TestDirectory_ConcurrentCreate(t *testing.T) {
	d := newTestDirectory(t)

	var wg sync.WaitGroup
	ids := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := d.Create(domain.IdentityPatch{})
			if err != nil {
				t.Error(err)
				return
			}
			ids <- created.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %s", id)
		}
		seen[id] = true
	}
	if d.Len() != 56 {
		t.Errorf("Len() = %d, want 56", d.Len())
	}
}
