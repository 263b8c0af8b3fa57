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

package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/fluxcd/pkg/ssa"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply reconciles the given Kubernetes manifests onto the cluster, creating missing objects and updating drifted ones.",
	RunE:  runApplyCmd,
}

type applyFlags struct {
	filename  []string
	kustomize string
}

var applyArgs applyFlags

func init() {
	applyCmd.Flags().StringSliceVarP(&applyArgs.filename, "filename", "f", nil,
		"Path to Kubernetes manifest(s). If a directory is specified, then all manifests in the directory tree will be processed recursively.")
	applyCmd.Flags().StringVarP(&applyArgs.kustomize, "kustomize", "k", "",
		"Path to a directory that contains a kustomization.yaml.")

	rootCmd.AddCommand(applyCmd)
}

func runApplyCmd(cmd *cobra.Command, args []string) error {
	if applyArgs.kustomize == "" && len(applyArgs.filename) == 0 {
		return fmt.Errorf("-f or -k is required")
	}

	objects, err := loadObjects(applyArgs.kustomize, applyArgs.filename)
	if err != nil {
		return err
	}

	recon, err := newReconciler()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	// cluster definitions go first so dependent objects land in an
	// existing namespace with their CRDs registered
	var stageOne, stageTwo []*unstructured.Unstructured
	for _, u := range objects {
		if ssa.IsClusterDefinition(u) {
			stageOne = append(stageOne, u)
		} else {
			stageTwo = append(stageTwo, u)
		}
	}
	sort.Sort(ssa.SortableUnstructureds(stageOne))
	sort.Sort(ssa.SortableUnstructureds(stageTwo))

	for _, object := range append(stageOne, stageTwo...) {
		entry, err := recon.Apply(ctx, object)
		if err != nil {
			return err
		}
		rootCmd.Println(`►`, entry.String())
	}

	return nil
}
