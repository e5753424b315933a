package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_NilDBIsNoop(t *testing.T) {
	assert.NoError(t, Run(nil))
}

func TestModels_CoversEveryTable(t *testing.T) {
	assert.Len(t, Models(), 5)
}
