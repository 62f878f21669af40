package instances

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateStoresDataAsJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	inst := Instance{
		ID:         "inst-1",
		TemplateID: "tmpl-1",
		Data:       map[string]string{"EmployeeName": "Jane"},
		FileKey:    "template-instances/inst-1.pdf",
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO template_instances").
		WithArgs(
			inst.ID,
			inst.TemplateID,
			[]byte(`{"EmployeeName":"Jane"}`),
			inst.FileKey,
			false,
			nil,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), inst); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkPaidFirstDelivery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE template_instances").
		WithArgs("inst-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkPaid(context.Background(), "inst-1"); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkPaidAlreadyPaidIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	// Guarded UPDATE touches nothing; the follow-up lookup finds the row.
	mock.ExpectExec("UPDATE template_instances").
		WithArgs("inst-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{
		"id", "template_id", "data", "file_key", "is_paid", "checkout_session_id", "created_at", "updated_at",
	}).AddRow("inst-1", "tmpl-1", []byte(`{}`), "template-instances/inst-1.pdf", true, "cs_test_1", time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM template_instances").
		WithArgs("inst-1").
		WillReturnRows(rows)

	if err := repo.MarkPaid(context.Background(), "inst-1"); err != nil {
		t.Fatalf("MarkPaid on paid instance: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkPaidUnknownInstance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE template_instances").
		WithArgs("inst-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM template_instances").
		WithArgs("inst-missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "template_id", "data", "file_key", "is_paid", "checkout_session_id", "created_at", "updated_at",
		}))

	if err := repo.MarkPaid(context.Background(), "inst-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetBySessionRef(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	rows := sqlmock.NewRows([]string{
		"id", "template_id", "data", "file_key", "is_paid", "checkout_session_id", "created_at", "updated_at",
	}).AddRow("inst-1", "tmpl-1", []byte(`{"a":"b"}`), "template-instances/inst-1.pdf", false, "cs_test_1", time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM template_instances").
		WithArgs("cs_test_1").
		WillReturnRows(rows)

	inst, err := repo.GetBySessionRef(context.Background(), "cs_test_1")
	if err != nil {
		t.Fatalf("GetBySessionRef: %v", err)
	}
	if inst.ID != "inst-1" || inst.Data["a"] != "b" || inst.CheckoutSessionID != "cs_test_1" {
		t.Fatalf("unexpected instance: %+v", inst)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
