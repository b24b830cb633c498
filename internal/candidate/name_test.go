package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredName(t *testing.T) {
	assert.Equal(t, "Jane Doe", Record{FirstName: "Jane", LastName: "Doe"}.StructuredName())
	assert.Equal(t, "Jane", Record{FirstName: "Jane"}.StructuredName())
	assert.Equal(t, "Doe", Record{LastName: "Doe"}.StructuredName())
	assert.Equal(t, "", Record{}.StructuredName())
}

func TestEmailLocalPart(t *testing.T) {
	assert.Equal(t, "jane.doe", Record{Email: "jane.doe@x.com"}.EmailLocalPart())
	assert.Equal(t, "", Record{Email: "@x.com"}.EmailLocalPart())
	assert.Equal(t, "", Record{}.EmailLocalPart())
}

func TestOrdinalLabel(t *testing.T) {
	assert.Equal(t, "Candidate 1", OrdinalLabel(1))
	assert.Equal(t, "Candidate 12", OrdinalLabel(12))
}
