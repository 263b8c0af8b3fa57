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

package cluster

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/cli-utils/pkg/object"

	"github.com/kubestate/kstate/pkg/drift"
)

// Action represents the action type taken for an object.
type Action string

const (
	CreatedAction    Action = "created"
	ConfiguredAction Action = "configured"
	UnchangedAction  Action = "unchanged"
	DeletedAction    Action = "deleted"
)

// ChangeSet holds the result of reconciling an object collection.
type ChangeSet struct {
	Entries []ChangeSetEntry
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{Entries: []ChangeSetEntry{}}
}

func (c *ChangeSet) Add(e ChangeSetEntry) {
	c.Entries = append(c.Entries, e)
}

// ChangeSetEntry defines the result of an action performed on an object.
type ChangeSetEntry struct {
	// Subject is the object ID in the format 'kind/namespace/name'.
	Subject string
	// Action is the action type taken for this object.
	Action Action
	// Changes holds the fields that diverged from the desired state.
	Changes []drift.FieldChange
}

func (e ChangeSetEntry) String() string {
	return fmt.Sprintf("%s %s", e.Subject, e.Action)
}

// ObjectID returns the object ID in the format <kind>/<namespace>/<name>.
func ObjectID(obj *unstructured.Unstructured) string {
	meta := object.UnstructuredToObjMeta(obj)
	if meta.Namespace == "" {
		return fmt.Sprintf("%s/%s", meta.GroupKind.Kind, meta.Name)
	}
	return fmt.Sprintf("%s/%s/%s", meta.GroupKind.Kind, meta.Namespace, meta.Name)
}
