package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sglre6355/pinkbean/internal/modules/general/domain"
)

func TestNewsInteractor_Latest(t *testing.T) {
	source := &fakeNewsSource{}
	source.set(domain.NewsUpdate, "7", "6", "5", "4", "3", "2", "1")
	interactor := NewNewsInteractor(source)

	posts, err := interactor.Latest(context.Background(), domain.NewsUpdate)
	require.NoError(t, err)
	assert.Len(t, posts, MaxNewsPosts)
	assert.Equal(t, "7", posts[0].ID)
	assert.Equal(t, []domain.NewsCategory{domain.NewsUpdate}, source.requests)
}

func TestNewsInteractor_LatestError(t *testing.T) {
	source := &fakeNewsSource{err: errors.New("503")}
	interactor := NewNewsInteractor(source)

	_, err := interactor.Latest(context.Background(), domain.NewsSale)
	assert.ErrorIs(t, err, source.err)
}

func TestNewsInteractor_Fresh(t *testing.T) {
	source := &fakeNewsSource{}
	source.set(domain.NewsAll, "2", "1")
	interactor := NewNewsInteractor(source)
	ctx := context.Background()

	fresh, err := interactor.Fresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh, "the first poll primes the seen set")

	source.set(domain.NewsAll, "4", "3", "2", "1")
	fresh, err = interactor.Fresh(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "3", fresh[0].ID)
	assert.Equal(t, "4", fresh[1].ID)

	fresh, err = interactor.Fresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}
