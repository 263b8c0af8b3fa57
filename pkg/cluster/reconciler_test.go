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
	"context"
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/kubestate/kstate/pkg/drift"
)

func testConfigMap(name, value string) *unstructured.Unstructured {
	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "v1",
			"kind":       "ConfigMap",
			"metadata": map[string]interface{}{
				"name":      name,
				"namespace": "default",
			},
			"data": map[string]interface{}{
				"key": value,
			},
		},
	}
}

func newTestReconciler() *Reconciler {
	kubeClient := fake.NewClientBuilder().WithScheme(NewScheme()).Build()
	return NewReconciler(kubeClient, "kstate")
}

func TestReconcilerApply(t *testing.T) {
	ctx := context.Background()
	r := newTestReconciler()

	t.Run("creates missing object", func(t *testing.T) {
		entry, err := r.Apply(ctx, testConfigMap("app", "v1"))
		if err != nil {
			t.Fatal(err)
		}
		if entry.Action != CreatedAction {
			t.Errorf("expected created, got %s", entry.Action)
		}
		if entry.Subject != "ConfigMap/default/app" {
			t.Errorf("unexpected subject %q", entry.Subject)
		}
	})

	t.Run("reports unchanged when satisfied", func(t *testing.T) {
		entry, err := r.Apply(ctx, testConfigMap("app", "v1"))
		if err != nil {
			t.Fatal(err)
		}
		if entry.Action != UnchangedAction {
			t.Errorf("expected unchanged, got %s", entry.Action)
		}
	})

	t.Run("updates drifted object", func(t *testing.T) {
		entry, err := r.Apply(ctx, testConfigMap("app", "v2"))
		if err != nil {
			t.Fatal(err)
		}
		if entry.Action != ConfiguredAction {
			t.Errorf("expected configured, got %s", entry.Action)
		}
		if len(entry.Changes) != 1 || entry.Changes[0].Kind != drift.Changed {
			t.Errorf("unexpected changes %v", entry.Changes)
		}

		// the update must land on the cluster
		followUp, err := r.Apply(ctx, testConfigMap("app", "v2"))
		if err != nil {
			t.Fatal(err)
		}
		if followUp.Action != UnchangedAction {
			t.Errorf("expected unchanged after update, got %s", followUp.Action)
		}
	})
}

func TestReconcilerDiff(t *testing.T) {
	ctx := context.Background()
	r := newTestReconciler()

	t.Run("missing object generates created entry", func(t *testing.T) {
		entry, err := r.Diff(ctx, testConfigMap("pending", "v1"))
		if err != nil {
			t.Fatal(err)
		}
		if entry.Action != CreatedAction {
			t.Errorf("expected created, got %s", entry.Action)
		}
		if len(entry.Changes) == 0 {
			t.Error("expected field changes for a missing object")
		}
	})

	t.Run("diff does not mutate the cluster", func(t *testing.T) {
		entry, err := r.Diff(ctx, testConfigMap("pending", "v1"))
		if err != nil {
			t.Fatal(err)
		}
		if entry.Action != CreatedAction {
			t.Errorf("expected created on second diff, got %s", entry.Action)
		}
	})

	t.Run("drifted object generates configured entry", func(t *testing.T) {
		if _, err := r.Apply(ctx, testConfigMap("live", "v1")); err != nil {
			t.Fatal(err)
		}

		entry, err := r.Diff(ctx, testConfigMap("live", "v2"))
		if err != nil {
			t.Fatal(err)
		}
		if entry.Action != ConfiguredAction {
			t.Errorf("expected configured, got %s", entry.Action)
		}
	})
}

func TestReconcilerDelete(t *testing.T) {
	ctx := context.Background()
	r := newTestReconciler()

	if _, err := r.Apply(ctx, testConfigMap("doomed", "v1")); err != nil {
		t.Fatal(err)
	}

	entry, err := r.Delete(ctx, testConfigMap("doomed", "v1"))
	if err != nil {
		t.Fatal(err)
	}
	if entry.Action != DeletedAction {
		t.Errorf("expected deleted, got %s", entry.Action)
	}

	entry, err = r.Delete(ctx, testConfigMap("doomed", "v1"))
	if err != nil {
		t.Fatal(err)
	}
	if entry.Action != UnchangedAction {
		t.Errorf("expected unchanged for missing object, got %s", entry.Action)
	}
}

func TestReconcilerRejectsIncompleteObjects(t *testing.T) {
	ctx := context.Background()
	r := newTestReconciler()

	obj := &unstructured.Unstructured{Object: map[string]interface{}{"some": "mapping"}}
	if _, err := r.Apply(ctx, obj); err == nil {
		t.Error("expected error for object without kind")
	}
}

func TestChangeSet(t *testing.T) {
	cs := NewChangeSet()
	cs.Add(ChangeSetEntry{Subject: "ConfigMap/default/app", Action: CreatedAction})

	if len(cs.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(cs.Entries))
	}
	if got := cs.Entries[0].String(); got != "ConfigMap/default/app created" {
		t.Errorf("unexpected entry string %q", got)
	}
}
