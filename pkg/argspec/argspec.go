/*
Copyright 2025 The kstate authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package argspec describes the declarative option schema shared by
// task definitions that manage cluster resources. A Spec maps each
// canonical option name to its declaration, including the alias names
// under which callers may supply it.
package argspec

// Field declares a single canonical option.
type Field struct {
	// Type is a hint for the host framework: "str", "bool", "path" or "dict".
	Type string
	// Default is applied by the host framework when the option is absent.
	Default interface{}
	// Choices restricts the accepted values.
	Choices []string
	// Aliases lists alternative names accepted for this option.
	Aliases []string
	// NoLog marks secret values that must never reach the logs.
	NoLog bool
}

// Spec maps canonical option names to their declarations.
type Spec map[string]Field

// Common returns the schema of the resource options.
func Common() Spec {
	return Spec{
		"state": {
			Default: "present",
			Choices: []string{"present", "absent"},
		},
		"force": {
			Type:    "bool",
			Default: false,
		},
		"resource_definition": {
			Type:    "dict",
			Aliases: []string{"definition", "inline"},
		},
		"src":       {Type: "path"},
		"kind":      {},
		"name":      {},
		"namespace": {},
		"api_version": {
			Default: "v1",
			Aliases: []string{"api", "version"},
		},
	}
}

// Auth returns the schema of the authentication options recognized by
// the auth resolver.
func Auth() Spec {
	return Spec{
		"kubeconfig": {Type: "path"},
		"context":    {},
		"host":       {},
		"api_key":    {NoLog: true},
		"username":   {},
		"password":   {NoLog: true},
		"verify_ssl": {Type: "bool"},
		"ssl_ca_cert": {
			Type: "path",
		},
		"cert_file": {Type: "path"},
		"key_file":  {Type: "path"},
	}
}

// Merge combines the given specs into a new one. Later specs win on
// conflicting canonical names.
func Merge(specs ...Spec) Spec {
	merged := Spec{}
	for _, s := range specs {
		for name, field := range s {
			merged[name] = field
		}
	}
	return merged
}

// RemoveAliases deletes every declared alias from the given parameter
// map, for every canonical option in the schema. The map is mutated in
// place; absent aliases are not an error. After the call only canonical
// names remain.
func (s Spec) RemoveAliases(params map[string]interface{}) {
	for _, field := range s {
		for _, alias := range field.Aliases {
			delete(params, alias)
		}
	}
}
