package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyPrefix(t *testing.T) {
	assert.Equal(t, "NT", CompanyPrefix("NISHA TRADERS"))
	assert.Equal(t, "ABC", CompanyPrefix("Aruna Bharath Crackers"))
	assert.Equal(t, "S", CompanyPrefix("Standard"))
}
