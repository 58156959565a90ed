package pii

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucket(t *testing.T) {
	entities := []Entity{
		{Type: TypeEmail, Confidence: 0.95},
		{Type: TypeSSN, Confidence: 0.85},
		{Type: TypeAadhaar, Confidence: 0.75},
		{Type: TypeBankAccount, Confidence: 0.50},
		{Type: TypeSSN, Confidence: 0.40},
		{Type: TypeVIN, Confidence: 0.49},
	}

	b := Bucket(entities)

	assert.Len(t, b.High, 2, "0.85 is high, boundary inclusive")
	assert.Len(t, b.Medium, 2, "0.50 is medium, boundary inclusive")
	assert.Len(t, b.Low, 2)

	// input order preserved within tiers
	assert.Equal(t, TypeEmail, b.High[0].Type)
	assert.Equal(t, TypeSSN, b.High[1].Type)
	assert.Equal(t, TypeAadhaar, b.Medium[0].Type)
}

func TestBucketEmpty(t *testing.T) {
	b := Bucket(nil)
	assert.Empty(t, b.High)
	assert.Empty(t, b.Medium)
	assert.Empty(t, b.Low)
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "Names", Category(TypePerson))
	assert.Equal(t, "Contact", Category(TypeEmail))
	assert.Equal(t, "IDs", Category(TypeSSN))
	assert.Equal(t, "Financial", Category(TypeCreditCard))
	assert.Equal(t, "Credentials", Category(TypeAPIKey))
	assert.Equal(t, "Technical", Category(TypeIPAddress))
	assert.Equal(t, "Other", Category(EntityType("SOMETHING_NEW")))
}

func TestCategoryOrderIsStable(t *testing.T) {
	first := CategoryOrder()
	second := CategoryOrder()
	assert.Equal(t, first, second)
	assert.Equal(t, "Names", first[0])
	assert.Equal(t, "Other", first[len(first)-1])

	// callers must not be able to corrupt the canonical order
	first[0] = "corrupted"
	assert.Equal(t, "Names", CategoryOrder()[0])
}
