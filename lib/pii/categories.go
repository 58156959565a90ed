package pii

// Categories group entity types for review tooling. The order of this slice
// is the display order.
var categoryOrder = []string{
	"Names", "Contact", "IDs", "Addresses", "Financial", "Credentials", "Technical", "Other",
}

var categories = map[string][]EntityType{
	"Names":   {TypePerson},
	"Contact": {TypeEmail, TypePhone, TypeUPIID},
	"IDs": {
		TypeSSN, TypeAadhaar, TypePAN, TypePassport, TypeDriversLicense,
		TypeUKNINumber, TypeCanadianSIN, TypeUSEIN, TypeMedicalRecord,
	},
	"Addresses": {TypeAddress, TypeLocation},
	"Financial": {TypeCreditCard, TypeIBAN, TypeBankAccount, TypeSwiftBIC},
	"Credentials": {
		TypeAPIKey, TypeUsernamePassword, TypeCredential,
		TypeURLWithCredentials, TypeCryptoWallet,
	},
	"Technical": {TypeIPAddress, TypeMACAddress, TypeVIN, TypeVehiclePlate},
	"Other":     {TypeDateOfBirth, TypeDateTime, TypeOrganization, TypeMedicalCondition},
}

var typeToCategory = func() map[EntityType]string {
	m := make(map[EntityType]string)
	for cat, types := range categories {
		for _, t := range types {
			m[t] = cat
		}
	}
	return m
}()

// Category returns the review-grouping category for an entity type, falling
// back to "Other" for unknown types.
func Category(t EntityType) string {
	if cat, ok := typeToCategory[t]; ok {
		return cat
	}
	return "Other"
}

// CategoryOrder returns category names in display order.
func CategoryOrder() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}
