package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/servicehub/internal/application"
	"github.com/ericfisherdev/servicehub/internal/domain/model"
)

func TestImportDocuments_CopiesIntoEmptyStore(t *testing.T) {
	src := newMemStore(
		[]model.Service{{ID: "1", Name: "JIRA", URL: "http://jira", Category: "jira"}},
		[]model.Category{catDefault, catJira},
	)
	dst := newMemStore(nil, nil)

	imported, err := application.ImportDocuments(context.Background(), dst, src)

	require.NoError(t, err)
	assert.True(t, imported)
	assert.Equal(t, src.services, dst.services)
	assert.Equal(t, src.categories, dst.categories)
}

func TestImportDocuments_SkipsPopulatedStore(t *testing.T) {
	src := newMemStore([]model.Service{{ID: "1", Name: "JIRA", URL: "http://jira"}}, nil)
	dst := newMemStore(nil, []model.Category{catWiki})

	imported, err := application.ImportDocuments(context.Background(), dst, src)

	require.NoError(t, err)
	assert.False(t, imported)
	assert.Equal(t, 0, dst.writes())
	assert.Nil(t, dst.services)
}

func TestImportDocuments_EmptySource(t *testing.T) {
	dst := newMemStore(nil, nil)

	imported, err := application.ImportDocuments(context.Background(), dst, newMemStore(nil, nil))

	require.NoError(t, err)
	assert.False(t, imported)
	assert.Equal(t, 0, dst.writes())
}
