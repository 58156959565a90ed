/*
 * Copyright 2024 PrivaSend
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pii

import (
	"fmt"
	"sort"
)

// EntityType tags the kind of PII a detection refers to. The set is closed;
// extend it only by adding new tags.
type EntityType string

const (
	TypeEmail              EntityType = "EMAIL"
	TypePhone              EntityType = "PHONE"
	TypeSSN                EntityType = "SSN"
	TypeCreditCard         EntityType = "CREDIT_CARD"
	TypeAPIKey             EntityType = "API_KEY"
	TypeAadhaar            EntityType = "AADHAAR"
	TypePAN                EntityType = "PAN"
	TypePassport           EntityType = "PASSPORT"
	TypeDriversLicense     EntityType = "DRIVERS_LICENSE"
	TypeIBAN               EntityType = "IBAN"
	TypeBankAccount        EntityType = "BANK_ACCOUNT"
	TypeDateOfBirth        EntityType = "DATE_OF_BIRTH"
	TypeMedicalRecord      EntityType = "MEDICAL_RECORD"
	TypeIPAddress          EntityType = "IP_ADDRESS"
	TypeMACAddress         EntityType = "MAC_ADDRESS"
	TypeVIN                EntityType = "VIN"
	TypeURLWithCredentials EntityType = "URL_WITH_CREDENTIALS"
	TypePerson             EntityType = "PERSON"
	TypeAddress            EntityType = "ADDRESS"
	TypeOrganization       EntityType = "ORGANIZATION"
	TypeLocation           EntityType = "LOCATION"
	TypeMedicalCondition   EntityType = "MEDICAL_CONDITION"
	TypeDateTime           EntityType = "DATE_TIME"
	TypeCredential         EntityType = "CREDENTIAL"
	TypeUPIID              EntityType = "UPI_ID"
	TypeSwiftBIC           EntityType = "SWIFT_BIC"
	TypeCryptoWallet       EntityType = "CRYPTO_WALLET"
	TypeVehiclePlate       EntityType = "VEHICLE_PLATE"
	TypeUKNINumber         EntityType = "UK_NI_NUMBER"
	TypeCanadianSIN        EntityType = "CANADIAN_SIN"
	TypeUSEIN              EntityType = "US_EIN"
	TypeUsernamePassword   EntityType = "USERNAME_PASSWORD"
)

// Source identifies which detection layer produced an entity.
type Source string

const (
	SourceStructured Source = "structured"
	SourceRecognized Source = "recognized"
)

// Entity is a single PII detection result. Start and End are half-open byte
// offsets into the original text; Value must always equal text[Start:End].
type Entity struct {
	Start                   int        `json:"start"`
	End                     int        `json:"end"`
	Type                    EntityType `json:"entity_type"`
	Value                   string     `json:"value"`
	Confidence              float64    `json:"confidence"`
	Source                  Source     `json:"source"`
	PreValidationConfidence *float64   `json:"pre_validation_confidence,omitempty"`
	Validated               bool       `json:"validated"`
}

// Overlaps reports whether the spans of e and other intersect.
func (e Entity) Overlaps(other Entity) bool {
	return e.Start < other.End && other.Start < e.End
}

// SortEntities orders entities by (start, end) ascending, in place.
func SortEntities(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Start != entities[j].Start {
			return entities[i].Start < entities[j].Start
		}
		return entities[i].End < entities[j].End
	})
}

// VerifySpans asserts that every entity's recorded value equals the slice of
// text it points at. A mismatch means offsets have been corrupted somewhere
// upstream, which would make redaction unsafe, so it is fatal.
func VerifySpans(text string, entities []Entity) {
	for _, e := range entities {
		if e.Start < 0 || e.End > len(text) || e.Start >= e.End {
			panic(fmt.Sprintf("pii: entity span [%d,%d) out of range for text of length %d", e.Start, e.End, len(text)))
		}
		if text[e.Start:e.End] != e.Value {
			panic(fmt.Sprintf("pii: entity value %q does not match text span %q at [%d,%d)", e.Value, text[e.Start:e.End], e.Start, e.End))
		}
	}
}

// genericTypes are NER guesses that a specific structured signature outranks.
var genericTypes = map[EntityType]struct{}{
	TypePerson:       {},
	TypeOrganization: {},
	TypeLocation:     {},
}

// specificTypes are structured signatures that suppress overlapping generic
// NER findings during the merge.
var specificTypes = map[EntityType]struct{}{
	TypeSSN:                {},
	TypeCreditCard:         {},
	TypeIPAddress:          {},
	TypeAPIKey:             {},
	TypeAadhaar:            {},
	TypePAN:                {},
	TypePassport:           {},
	TypeDriversLicense:     {},
	TypeIBAN:               {},
	TypeBankAccount:        {},
	TypeMedicalRecord:      {},
	TypeMACAddress:         {},
	TypeVIN:                {},
	TypeURLWithCredentials: {},
	TypePhone:              {},
	TypeEmail:              {},
	TypeAddress:            {},
	TypeCredential:         {},
	TypeUPIID:              {},
	TypeSwiftBIC:           {},
	TypeCryptoWallet:       {},
	TypeUKNINumber:         {},
	TypeCanadianSIN:        {},
	TypeUSEIN:              {},
	TypeUsernamePassword:   {},
}

func isGeneric(t EntityType) bool {
	_, ok := genericTypes[t]
	return ok
}

func isSpecific(t EntityType) bool {
	_, ok := specificTypes[t]
	return ok
}
