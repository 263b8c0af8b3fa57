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

// Package manifest loads multi-document YAML or JSON resource files
// into unstructured objects, preserving document order.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	apiruntime "k8s.io/apimachinery/pkg/runtime"
	yamlutil "k8s.io/apimachinery/pkg/util/yaml"
)

// PathError reports a manifest path that does not exist or cannot be
// opened.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("error accessing %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// ParseError reports malformed multi-document content.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads the resource documents from the given file. The path is
// cleaned before the existence check. A missing or unreadable file
// yields a *PathError, malformed content a *ParseError. A file with
// zero documents yields an empty slice.
func Load(path string) ([]*unstructured.Unstructured, error) {
	p := filepath.Clean(path)
	if _, err := os.Stat(p); err != nil {
		return nil, &PathError{Path: p, Err: err}
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, &PathError{Path: p, Err: err}
	}
	defer f.Close()

	objects, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, &ParseError{Path: p, Err: err}
	}

	return objects, nil
}

// Read decodes the YAML or JSON documents from the given reader in
// document order. Documents are arbitrary mappings; empty and null
// documents are skipped, duplicates are kept. Kubernetes List objects
// are expanded into their items.
func Read(r io.Reader) ([]*unstructured.Unstructured, error) {
	decoder := yamlutil.NewYAMLOrJSONDecoder(r, 2048)
	objects := make([]*unstructured.Unstructured, 0)

	for {
		var doc map[string]interface{}
		if err := decoder.Decode(&doc); err != nil {
			if err == io.EOF {
				break
			}
			return objects, err
		}

		if len(doc) == 0 {
			continue
		}

		obj := &unstructured.Unstructured{Object: doc}
		if obj.IsList() {
			err := obj.EachListItem(func(item apiruntime.Object) error {
				objects = append(objects, item.(*unstructured.Unstructured))
				return nil
			})
			if err != nil {
				return objects, err
			}
			continue
		}

		objects = append(objects, obj)
	}

	return objects, nil
}
