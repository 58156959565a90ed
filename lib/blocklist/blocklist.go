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

// Package blocklist rejects NER candidates whose text exactly matches a
// curated list of technical, protocol and acronym terms that statistical
// recognizers systematically misclassify as organizations or locations.
package blocklist

import (
	"fmt"
	"io/ioutil"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	"github.com/privasend/privasend/lib/text"
)

type Blocklist struct {
	CaseSensitive   map[string]bool
	CaseInsensitive map[string]bool
}

// Allowed returns true if candidate is not blocklisted. Case-insensitive
// entries are compared on the NFKC-folded form.
func (blocklist Blocklist) Allowed(candidate string) bool {
	if blocklist.CaseSensitive[candidate] {
		return false
	}
	if blocklist.CaseInsensitive[text.Fold(candidate)] {
		return false
	}
	return true
}

// Default returns the built-in blocklist: protocol names, file formats,
// platform names, timezone codes and directional abbreviations.
func Default() Blocklist {
	bl := Blocklist{
		CaseSensitive:   map[string]bool{},
		CaseInsensitive: map[string]bool{},
	}
	for _, term := range defaultTerms {
		bl.CaseInsensitive[term] = true
	}
	return bl
}

var defaultTerms = []string{
	// protocols and standards
	"ip", "tcp", "udp", "http", "https", "ftp", "sftp", "ssh", "tls", "ssl",
	"dns", "smtp", "imap", "pop3", "rest", "grpc", "soap", "mqtt", "oauth",
	"saml", "jwt", "ldap", "dhcp", "ntp", "rtp", "sip", "vpn",
	// data and file formats
	"json", "xml", "yaml", "toml", "csv", "tsv", "html", "css", "pdf",
	"png", "jpeg", "jpg", "gif", "svg", "zip", "tar", "gzip", "parquet",
	// identifiers regex layers already own
	"ssn", "pan", "vin", "iban", "mrn", "pin", "otp", "upi",
	// platforms, vendors, tooling
	"api", "api_key", "sdk", "cli", "gui", "ide", "sql", "nosql", "graphql",
	"aws", "gcp", "azure", "github", "gitlab", "bitbucket", "docker",
	"kubernetes", "linux", "unix", "windows", "macos", "android", "ios",
	"npm", "pip", "maven", "gradle",
	// hardware
	"cpu", "gpu", "ram", "rom", "ssd", "hdd", "usb", "hdmi",
	// timezone codes
	"utc", "gmt", "est", "edt", "cst", "cdt", "mst", "mdt", "pst", "pdt",
	"ist", "bst", "cet", "cest", "jst", "aest",
	// directional abbreviations
	"north", "south", "east", "west", "ne", "nw", "se", "sw",
	"nne", "ene", "sse", "wsw",
}

// Load returns the default blocklist extended with terms from a YAML file at
// the given path (case_sensitive / case_insensitive YAML lists).
func Load(path string) (*Blocklist, error) {

	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("could not find blocklist at %v", path))
		return nil, err
	}

	type yamlBlocklist struct {
		CaseSensitive   []string `yaml:"case_sensitive"`
		CaseInsensitive []string `yaml:"case_insensitive"`
	}

	yamlBl := yamlBlocklist{}
	if err := yaml.Unmarshal(bytes, &yamlBl); err != nil {
		log.Error().Msg(fmt.Sprintf("could not load blocklist from %v", path))
		return nil, err
	}

	res := Default()
	for _, v := range yamlBl.CaseSensitive {
		res.CaseSensitive[v] = true
	}
	for _, v := range yamlBl.CaseInsensitive {
		res.CaseInsensitive[text.Fold(v)] = true
	}

	log.Info().Msg(fmt.Sprintf("blocklist extended from %v", path))

	return &res, nil
}
