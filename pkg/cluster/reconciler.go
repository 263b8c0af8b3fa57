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
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/kubestate/kstate/pkg/drift"
)

// Reconciler creates, updates and deletes single cluster resources.
// Update decisions come from the selective drift engine, so fields
// populated by the server never trigger spurious updates.
type Reconciler struct {
	client     client.Client
	fieldOwner string
}

func NewReconciler(kubeClient client.Client, fieldOwner string) *Reconciler {
	return &Reconciler{
		client:     kubeClient,
		fieldOwner: fieldOwner,
	}
}

// Get fetches the live state of the given object. A missing object is
// reported as a nil result, not an error.
func (r *Reconciler) Get(ctx context.Context, obj *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	existing := &unstructured.Unstructured{}
	existing.SetGroupVersionKind(obj.GroupVersionKind())

	err := r.client.Get(ctx, client.ObjectKeyFromObject(obj), existing)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s get failed: %w", ObjectID(obj), err)
	}

	return existing, nil
}

// Diff compares the desired object with the live state without
// mutating the cluster.
func (r *Reconciler) Diff(ctx context.Context, obj *unstructured.Unstructured) (*ChangeSetEntry, error) {
	if err := validate(obj); err != nil {
		return nil, err
	}

	existing, err := r.Get(ctx, obj)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		res := drift.Objects(map[string]interface{}{}, obj.Object)
		return &ChangeSetEntry{Subject: ObjectID(obj), Action: CreatedAction, Changes: res.Changes}, nil
	}

	res := drift.Objects(existing.Object, obj.Object)
	if res.Match {
		return &ChangeSetEntry{Subject: ObjectID(obj), Action: UnchangedAction}, nil
	}

	return &ChangeSetEntry{Subject: ObjectID(obj), Action: ConfiguredAction, Changes: res.Changes}, nil
}

// Apply reconciles the desired object onto the cluster: missing objects
// are created, drifted objects updated, satisfied objects left alone.
func (r *Reconciler) Apply(ctx context.Context, obj *unstructured.Unstructured) (*ChangeSetEntry, error) {
	if err := validate(obj); err != nil {
		return nil, err
	}

	existing, err := r.Get(ctx, obj)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := r.client.Create(ctx, obj.DeepCopy(), client.FieldOwner(r.fieldOwner)); err != nil {
			return nil, fmt.Errorf("%s create failed: %w", ObjectID(obj), err)
		}
		return &ChangeSetEntry{Subject: ObjectID(obj), Action: CreatedAction}, nil
	}

	res := drift.Objects(existing.Object, obj.Object)
	if res.Match {
		return &ChangeSetEntry{Subject: ObjectID(obj), Action: UnchangedAction}, nil
	}

	desired := obj.DeepCopy()
	desired.SetResourceVersion(existing.GetResourceVersion())
	if err := r.client.Update(ctx, desired, client.FieldOwner(r.fieldOwner)); err != nil {
		return nil, fmt.Errorf("%s update failed: %w", ObjectID(obj), err)
	}

	return &ChangeSetEntry{Subject: ObjectID(obj), Action: ConfiguredAction, Changes: res.Changes}, nil
}

// Delete removes the object from the cluster. Deleting a missing object
// reports unchanged.
func (r *Reconciler) Delete(ctx context.Context, obj *unstructured.Unstructured) (*ChangeSetEntry, error) {
	if err := validate(obj); err != nil {
		return nil, err
	}

	existing, err := r.Get(ctx, obj)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return &ChangeSetEntry{Subject: ObjectID(obj), Action: UnchangedAction}, nil
	}

	if err := r.client.Delete(ctx, existing); err != nil {
		return nil, fmt.Errorf("%s delete failed: %w", ObjectID(obj), err)
	}

	return &ChangeSetEntry{Subject: ObjectID(obj), Action: DeletedAction}, nil
}

func validate(obj *unstructured.Unstructured) error {
	if obj.GetAPIVersion() == "" || obj.GetKind() == "" || obj.GetName() == "" {
		return fmt.Errorf("object is missing apiVersion, kind or name: %v", obj.Object)
	}
	return nil
}
