package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidHost(t *testing.T) {
	valid := []string{
		"localhost",
		"LOCALHOST",
		"127.0.0.1",
		"10.0.3.41",
		"::1",
		"2001:db8::42",
		"mongo-primary",
		"db.internal.example.com",
		"shard_01.cluster",
	}
	for _, host := range valid {
		assert.True(t, IsValidHost(host), "expected %q to be valid", host)
	}

	invalid := []string{
		"",
		"-leading-hyphen",
		"trailing-hyphen-",
		".leading.dot",
		"trailing.dot.",
		"has space.example.com",
		"bad!char",
	}
	for _, host := range invalid {
		assert.False(t, IsValidHost(host), "expected %q to be invalid", host)
	}
}

func TestValidateStruct(t *testing.T) {
	type registration struct {
		Name string `validate:"required,min=1,max=100"`
		Port int    `validate:"required,min=1,max=65535"`
	}

	assert.NoError(t, ValidateStruct(&registration{Name: "prod", Port: 27017}))
	assert.Error(t, ValidateStruct(&registration{Name: "", Port: 27017}))
	assert.Error(t, ValidateStruct(&registration{Name: "prod", Port: 70000}))
}
