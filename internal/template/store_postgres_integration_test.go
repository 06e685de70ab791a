//go:build integration

package template_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"fismapp/internal/template"
	"fismapp/pkg/platform/sentinel"
	"fismapp/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *template.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = template.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.postgres.DB.ExecContext(ctx, "DROP TABLE IF EXISTS certificate_templates")
	s.Require().NoError(err)
	s.Require().NoError(s.store.EnsureSchema(ctx))
}

func (s *PostgresStoreSuite) TestEnsureSchemaSeedsDefault() {
	ctx := context.Background()

	tmpl, err := s.store.GetTemplate(ctx, "default")
	s.Require().NoError(err)
	s.True(tmpl.IsDefault)
	s.Equal("Constancia de Carga Académica", tmpl.Name)

	// Re-running the migration must not duplicate or reset anything.
	s.Require().NoError(s.store.EnsureSchema(ctx))
	templates, err := s.store.ListTemplates(ctx)
	s.Require().NoError(err)
	s.Len(templates, 1)
}

func (s *PostgresStoreSuite) TestPutRoundtrip() {
	ctx := context.Background()

	custom := template.DefaultTemplate()
	custom.TemplateID = "posgrado"
	custom.Name = "Constancia de Posgrado"
	custom.IsDefault = false
	s.Require().NoError(s.store.Put(ctx, custom))

	got, err := s.store.GetTemplate(ctx, "posgrado")
	s.Require().NoError(err)
	s.Equal("Constancia de Posgrado", got.Name)
	s.Equal(custom.Address, got.Address)
	s.True(got.IncludeQRByDefault)

	custom.SecretaryName = "Dra. María López"
	s.Require().NoError(s.store.Put(ctx, custom))
	got, err = s.store.GetTemplate(ctx, "posgrado")
	s.Require().NoError(err)
	s.Equal("Dra. María López", got.SecretaryName)
}

func (s *PostgresStoreSuite) TestGetUnknown() {
	_, err := s.store.GetTemplate(context.Background(), "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListOrder() {
	ctx := context.Background()

	alt := template.DefaultTemplate()
	alt.TemplateID = "alterna"
	alt.Name = "A Plantilla Alterna"
	alt.IsDefault = false
	s.Require().NoError(s.store.Put(ctx, alt))

	templates, err := s.store.ListTemplates(ctx)
	s.Require().NoError(err)
	s.Require().Len(templates, 2)
	s.True(templates[0].IsDefault)
	s.Equal("A Plantilla Alterna", templates[1].Name)
}
