package storage_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseworks-hq/caseworks/internal/model"
	"github.com/caseworks-hq/caseworks/internal/storage"
	"github.com/caseworks-hq/caseworks/internal/testutil"
	"github.com/caseworks-hq/caseworks/migrations"
)

var testDB *storage.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	tc := testutil.MustStartPostgres()

	var err error
	testDB, err = tc.NewTestDB(ctx, testutil.TestLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create test DB: %v\n", err)
		tc.Terminate()
		os.Exit(1)
	}

	code := m.Run()

	testDB.Close()
	tc.Terminate()
	os.Exit(code)
}

func createCase(t *testing.T, product string) model.Case {
	t.Helper()
	c, err := testDB.CreateCase(context.Background(), model.Case{Product: product})
	require.NoError(t, err)
	return c
}

func TestMigrationsAreIdempotent(t *testing.T) {
	require.NoError(t, testDB.RunMigrations(context.Background(), migrations.FS))
}

func TestCreateAndGetCase(t *testing.T) {
	ctx := context.Background()
	created := createCase(t, model.ProductMoneyClaim)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, model.CaseStatusDraft, created.Status)

	got, err := testDB.GetCase(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, model.ProductMoneyClaim, got.Product)
	assert.Equal(t, model.CaseStatusDraft, got.Status)
	assert.Nil(t, got.CollectedFacts)
}

func TestGetCaseNotFound(t *testing.T) {
	_, err := testDB.GetCase(context.Background(), uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateCaseStatus(t *testing.T) {
	ctx := context.Background()
	c := createCase(t, model.ProductEvictionNotice)

	require.NoError(t, testDB.UpdateCaseStatus(ctx, c.ID, model.CaseStatusComplete))

	got, err := testDB.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CaseStatusComplete, got.Status)

	assert.ErrorIs(t, testDB.UpdateCaseStatus(ctx, uuid.New(), model.CaseStatusComplete), storage.ErrNotFound)
}

func TestGetOrCreateFactsCreatesEmptyRow(t *testing.T) {
	ctx := context.Background()
	c := createCase(t, model.ProductMoneyClaim)

	rec, err := testDB.GetOrCreateFacts(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, rec.CaseID)
	assert.Equal(t, 1, rec.Version)
	assert.Empty(t, rec.Facts)

	// Second read returns the existing row rather than recreating it.
	again, err := testDB.GetOrCreateFacts(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Version)
}

func TestGetOrCreateFactsUnknownCase(t *testing.T) {
	_, err := testDB.GetOrCreateFacts(context.Background(), uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateFactsBumpsVersionAndPersists(t *testing.T) {
	ctx := context.Background()
	c := createCase(t, model.ProductMoneyClaim)

	rec, err := testDB.UpdateFacts(ctx, c.ID, func(current model.WizardFacts) model.WizardFacts {
		current["landlord_name"] = "Jane Doe"
		current["rent_amount"] = float64(1200)
		return current
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Version)
	assert.Equal(t, "Jane Doe", rec.Facts["landlord_name"])

	rec2, err := testDB.UpdateFacts(ctx, c.ID, func(current model.WizardFacts) model.WizardFacts {
		current["tenant1_name"] = "John Smith"
		return current
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, rec2.Version)
	assert.Equal(t, "Jane Doe", rec2.Facts["landlord_name"])
	assert.Equal(t, "John Smith", rec2.Facts["tenant1_name"])

	// Reread from the table, not the returned record.
	stored, err := testDB.GetOrCreateFacts(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Version)
	assert.Equal(t, "John Smith", stored.Facts["tenant1_name"])
}

// A PATCH can land before any GET has created the facts row.
func TestUpdateFactsCreatesRowOnFirstWrite(t *testing.T) {
	ctx := context.Background()
	c := createCase(t, model.ProductTenancyAgreement)

	rec, err := testDB.UpdateFacts(ctx, c.ID, func(current model.WizardFacts) model.WizardFacts {
		current["agreement_type"] = "ast"
		return current
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Version)
	assert.Equal(t, "ast", rec.Facts["agreement_type"])
}

func TestUpdateFactsUnknownCase(t *testing.T) {
	_, err := testDB.UpdateFacts(context.Background(), uuid.New(), func(current model.WizardFacts) model.WizardFacts {
		return current
	}, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateFactsMirrorsOntoCase(t *testing.T) {
	ctx := context.Background()
	c := createCase(t, model.ProductMoneyClaim)

	_, err := testDB.UpdateFacts(ctx, c.ID, func(current model.WizardFacts) model.WizardFacts {
		current["landlord_name"] = "Jane Doe"
		return current
	}, nil)
	require.NoError(t, err)

	got, err := testDB.GetCase(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CollectedFacts)
	assert.Equal(t, "Jane Doe", got.CollectedFacts["landlord_name"])
	assert.NotContains(t, got.CollectedFacts, "__meta")
}

func TestUpdateFactsMirrorCarriesMetaTag(t *testing.T) {
	ctx := context.Background()
	c := createCase(t, model.ProductMoneyClaim)

	_, err := testDB.UpdateFacts(ctx, c.ID, func(current model.WizardFacts) model.WizardFacts {
		current["landlord_name"] = "Jane Doe"
		return current
	}, map[string]any{"step": "landlord", "autosave": true})
	require.NoError(t, err)

	got, err := testDB.GetCase(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CollectedFacts)

	meta, ok := got.CollectedFacts["__meta"].(map[string]any)
	require.True(t, ok, "expected __meta wrapper in mirror")
	assert.Equal(t, "landlord", meta["step"])

	// The facts row itself never carries the tag.
	rec, err := testDB.GetOrCreateFacts(ctx, c.ID)
	require.NoError(t, err)
	assert.NotContains(t, rec.Facts, "__meta")
}

func TestUpdateFactsNilResultResetsToEmpty(t *testing.T) {
	ctx := context.Background()
	c := createCase(t, model.ProductMoneyClaim)

	rec, err := testDB.UpdateFacts(ctx, c.ID, func(model.WizardFacts) model.WizardFacts {
		return nil
	}, nil)
	require.NoError(t, err)
	assert.NotNil(t, rec.Facts)
	assert.Empty(t, rec.Facts)
}

func TestPing(t *testing.T) {
	assert.NoError(t, testDB.Ping(context.Background()))
}
