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

import "regexp"

// rule is a single typed pattern with a fixed confidence weight. Within a
// type, rules are ordered most-specific-first; several rules per type at
// different confidences reflect ambiguity honestly instead of pretending one
// pattern is authoritative.
type rule struct {
	entityType EntityType
	pattern    *regexp.Regexp
	confidence float64
}

var rules []rule

func addRule(t EntityType, pattern string, confidence float64) {
	rules = append(rules, rule{t, regexp.MustCompile(pattern), confidence})
}

func init() {
	// Email
	addRule(TypeEmail, `\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`, 0.95)

	// Phone: international with country code, US formats, Indian mobile
	addRule(TypePhone, `\+\d{1,3}[\s\-.]?\(?\d{1,4}\)?[\s\-.]?\d{1,4}[\s\-.]?\d{1,9}`, 0.85)
	addRule(TypePhone, `\(?\d{3}\)?[\s\-.]?\d{3}[\s\-.]?\d{4}\b`, 0.80)
	addRule(TypePhone, `\b[6-9]\d{4}[\s\-]?\d{5}\b`, 0.75)

	// SSN: tight format, spaced or loosely dashed variant, bare nine digits.
	// Zero-width-broken SSNs are caught by the evasion pass in DetectStructured.
	addRule(TypeSSN, `\b\d{3}-\d{2}-\d{4}\b`, 0.90)
	addRule(TypeSSN, `\b\d{3}[-\s]\d{2}[-\s]\d{4}\b`, 0.80)
	addRule(TypeSSN, `\b\d{9}\b`, 0.40) // could be any 9-digit number

	// Credit cards: Visa, Mastercard, Amex, Discover, generic separated 16-digit
	addRule(TypeCreditCard, `\b4\d{3}[\s\-]?\d{4}[\s\-]?\d{4}[\s\-]?\d{4}\b`, 0.90)
	addRule(TypeCreditCard, `\b5[1-5]\d{2}[\s\-]?\d{4}[\s\-]?\d{4}[\s\-]?\d{4}\b`, 0.90)
	addRule(TypeCreditCard, `\b3[47]\d{2}[\s\-]?\d{6}[\s\-]?\d{5}\b`, 0.90)
	addRule(TypeCreditCard, `\b6(?:011|5\d{2})[\s\-]?\d{4}[\s\-]?\d{4}[\s\-]?\d{4}\b`, 0.90)
	addRule(TypeCreditCard, `\b\d{4}[\s\-]\d{4}[\s\-]\d{4}[\s\-]\d{4}\b`, 0.70)

	// API keys and secrets
	addRule(TypeAPIKey, `\bsk-[A-Za-z0-9]{20,}\b`, 0.95)
	addRule(TypeAPIKey, `\bsk_(?:live|test)_[A-Za-z0-9]{10,}\b`, 0.95)
	addRule(TypeAPIKey, `\bAKIA[0-9A-Z]{16}\b`, 0.95)
	addRule(TypeAPIKey, `\bBearer\s+[A-Za-z0-9\-_.=+/]{20,}`, 0.85)
	addRule(TypeAPIKey, `(?i)\b(?:api[_\-]?key|token|secret)["'\s:=]+[A-Za-z0-9\-_]{16,}\b`, 0.80)
	addRule(TypeAPIKey, `(?i)\b(?:password|passwd|pwd)["'\s:=]+\S{6,}`, 0.80)

	// Username/password pairs
	addRule(TypeUsernamePassword, `(?i)\busername["'\s:=]+\S+[\s,;]+password["'\s:=]+\S+`, 0.85)

	// Aadhaar (India)
	addRule(TypeAadhaar, `\b[2-9]\d{3}[\s\-]?\d{4}[\s\-]?\d{4}\b`, 0.75)

	// PAN (India)
	addRule(TypePAN, `\b[A-Z]{5}\d{4}[A-Z]\b`, 0.90)

	// Passports: US, Indian
	addRule(TypePassport, `\b[A-Z]\d{8}\b`, 0.60)
	addRule(TypePassport, `\b[A-Z][1-9]\d{6}\b`, 0.55)

	// Driver's license (US common formats), overlaps with passport shapes
	addRule(TypeDriversLicense, `\b[A-Z]\d{7,8}\b`, 0.45)

	// IBAN
	addRule(TypeIBAN, `\b[A-Z]{2}\d{2}[\s]?[A-Z0-9]{4}[\s]?(?:[A-Z0-9]{4}[\s]?){1,7}[A-Z0-9]{1,4}\b`, 0.85)

	// SWIFT/BIC
	addRule(TypeSwiftBIC, `\b[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}(?:[A-Z0-9]{3})?\b`, 0.70)

	// US bank account (routing + account)
	addRule(TypeBankAccount, `\b\d{9}[\s\-]?\d{7,17}\b`, 0.50)

	// US EIN
	addRule(TypeUSEIN, `\b\d{2}-\d{7}\b`, 0.70)

	// UK National Insurance number
	addRule(TypeUKNINumber, `\b[A-CEGHJ-PR-TW-Z]{2}\s?\d{2}\s?\d{2}\s?\d{2}\s?[A-D]\b`, 0.80)

	// Canadian SIN
	addRule(TypeCanadianSIN, `\b\d{3}[\s\-]\d{3}[\s\-]\d{3}\b`, 0.55)

	// Dates of birth, context-gated in DetectStructured
	addRule(TypeDateOfBirth, `\b(?:0[1-9]|1[0-2])[/\-](?:0[1-9]|[12]\d|3[01])[/\-](?:19|20)\d{2}\b`, 0.65)
	addRule(TypeDateOfBirth, `\b(?:19|20)\d{2}[/\-](?:0[1-9]|1[0-2])[/\-](?:0[1-9]|[12]\d|3[01])\b`, 0.65)
	addRule(TypeDateOfBirth, `(?i)\b\d{1,2}[\s\-](?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*[\s\-,]*\d{4}\b`, 0.55)
	addRule(TypeDateOfBirth, `(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*[\s\-]+\d{1,2}[\s,]+\d{4}\b`, 0.55)

	// Medical record number
	addRule(TypeMedicalRecord, `(?i)\bMRN[\s\-:#]?\d{4,10}\b`, 0.85)

	// IP addresses: IPv4, full-group IPv6
	addRule(TypeIPAddress, `\b(?:25[0-5]|2[0-4]\d|[01]?\d\d?)\.(?:25[0-5]|2[0-4]\d|[01]?\d\d?)\.(?:25[0-5]|2[0-4]\d|[01]?\d\d?)\.(?:25[0-5]|2[0-4]\d|[01]?\d\d?)\b`, 0.80)
	addRule(TypeIPAddress, `\b(?:[0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}\b`, 0.80)

	// MAC address
	addRule(TypeMACAddress, `\b(?:[0-9A-Fa-f]{2}[:\-]){5}[0-9A-Fa-f]{2}\b`, 0.85)

	// VIN, many unrelated 17-char strings exist
	addRule(TypeVIN, `\b[A-HJ-NPR-Z0-9]{17}\b`, 0.50)

	// URL with inline credentials
	addRule(TypeURLWithCredentials, `https?://[^\s:]+:[^\s@]+@[^\s]+`, 0.95)

	// Street addresses
	addRule(TypeAddress, `\b\d{1,5}\s+(?:[A-Z][A-Za-z]+\s+){0,3}(?:Street|St|Avenue|Ave|Boulevard|Blvd|Road|Rd|Lane|Ln|Drive|Dr|Court|Ct|Place|Pl|Way|Terrace|Circle)\b`, 0.70)

	// UPI handles (India), curated PSP suffixes to avoid clashing with email
	addRule(TypeUPIID, `\b[A-Za-z0-9.\-_]{2,}@(?:ybl|oksbi|okaxis|okhdfcbank|okicici|paytm|apl|upi|ibl|axl)\b`, 0.80)

	// Crypto wallets: ETH, BTC
	addRule(TypeCryptoWallet, `\b0x[a-fA-F0-9]{40}\b`, 0.85)
	addRule(TypeCryptoWallet, `\b(?:bc1[a-z0-9]{25,39}|[13][A-HJ-NP-Za-km-z1-9]{25,34})\b`, 0.60)

	// Vehicle plates (Indian format)
	addRule(TypeVehiclePlate, `\b[A-Z]{2}[\s\-]?\d{1,2}[\s\-]?[A-Z]{1,2}[\s\-]?\d{4}\b`, 0.55)
}
