package crewflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLegal(t *testing.T) {
	legal := map[[2]NodeKind]bool{
		{KindOrchestrator, KindWorker}:   true,
		{KindOrchestrator, KindWorkItem}: true,
		{KindWorker, KindWorkItem}:       true,
	}
	for _, src := range Kinds {
		for _, dst := range Kinds {
			want := legal[[2]NodeKind{src, dst}]
			assert.Equal(t, want, IsLegal(src, dst), "%s -> %s", src, dst)
		}
	}
}

func TestIsLegalUnknownKind(t *testing.T) {
	assert.False(t, IsLegal("team", KindWorker))
	assert.False(t, IsLegal(KindOrchestrator, ""))
}
