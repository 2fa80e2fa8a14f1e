package clients

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	pkgerrors "github.com/lucasvieira/alugueja-backend/pkg/errors"
	"github.com/lucasvieira/alugueja-backend/pkg/pagination"
)

type fakeRepository struct {
	clients map[uuid.UUID]*models.Client
	active  map[uuid.UUID]bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		clients: make(map[uuid.UUID]*models.Client),
		active:  make(map[uuid.UUID]bool),
	}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, client *models.Client) error {
	client.ID = uuid.New()
	client.CreatedAt = time.Now().UTC()
	f.clients[client.ID] = client
	return nil
}

func (f *fakeRepository) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return client, nil
}

func (f *fakeRepository) List(ctx context.Context, params listClientsParams) ([]models.Client, *pagination.Cursor, error) {
	var out []models.Client
	for _, c := range f.clients {
		out = append(out, *c)
	}
	return out, nil, nil
}

func (f *fakeRepository) Save(ctx context.Context, client *models.Client) error {
	f.clients[client.ID] = client
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.clients[id]; !ok {
		return 0, nil
	}
	delete(f.clients, id)
	return 1, nil
}

func (f *fakeRepository) HasActiveRentals(ctx context.Context, clientID uuid.UUID) (bool, error) {
	return f.active[clientID], nil
}

func newFixture(t *testing.T) (Service, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestService_Create(t *testing.T) {
	svc, _ := newFixture(t)

	client, err := svc.Create(context.Background(), CreateInput{
		Name:     "  Construtora Silva  ",
		Phone:    "11 98888-1111",
		Document: "12.345.678/0001-00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Name != "Construtora Silva" {
		t.Fatalf("name should be trimmed, got %q", client.Name)
	}
	if client.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
}

func TestService_CreateRequiresName(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.Create(context.Background(), CreateInput{Name: "   "})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestService_Update(t *testing.T) {
	svc, _ := newFixture(t)
	client, err := svc.Create(context.Background(), CreateInput{Name: "Joao", Phone: "11 1234"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	phone := "11 95555-0000"
	email := "joao@example.com"
	updated, err := svc.Update(context.Background(), client.ID, UpdateInput{Phone: &phone, Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != phone {
		t.Fatalf("phone not applied, got %q", updated.Phone)
	}
	if updated.Email == nil || *updated.Email != email {
		t.Fatal("email not applied")
	}
	if updated.Name != "Joao" {
		t.Fatal("untouched fields should stay as-is")
	}
}

func TestService_UpdateNotFound(t *testing.T) {
	svc, _ := newFixture(t)
	name := "whatever"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{Name: &name})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_DeleteBlockedByActiveRentals(t *testing.T) {
	svc, repo := newFixture(t)
	client, err := svc.Create(context.Background(), CreateInput{Name: "Maria"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	repo.active[client.ID] = true
	err = svc.Delete(context.Background(), client.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if _, ok := repo.clients[client.ID]; !ok {
		t.Fatal("client should still exist")
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo := newFixture(t)
	client, err := svc.Create(context.Background(), CreateInput{Name: "Pedro"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), client.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.clients[client.ID]; ok {
		t.Fatal("client should be gone")
	}
}

func TestService_DeleteNotFound(t *testing.T) {
	svc, _ := newFixture(t)
	err := svc.Delete(context.Background(), uuid.New())
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
