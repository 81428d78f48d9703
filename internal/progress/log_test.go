package progress

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	log := NewLog(&buf)

	log.Append("Git initialized.")
	log.Appendf("Branch set to %s.", "main")

	assert.Equal(t, []string{"Git initialized.", "Branch set to main."}, log.Lines())
	assert.Equal(t, "Git initialized.\nBranch set to main.\n", buf.String())
}

func TestLogLinesIsCopy(t *testing.T) {
	log := NewLog(nil)
	log.Append("one")

	lines := log.Lines()
	lines[0] = "changed"
	assert.Equal(t, []string{"one"}, log.Lines())
}

func TestLogConcurrentAppend(t *testing.T) {
	log := NewLog(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			log.Append(fmt.Sprintf("line %d", i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, log.Lines(), 20)
}
