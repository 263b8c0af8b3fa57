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
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete removes the given Kubernetes objects from the cluster.",
	RunE:  runDeleteCmd,
}

type deleteFlags struct {
	filename  []string
	kustomize string
}

var deleteArgs deleteFlags

func init() {
	deleteCmd.Flags().StringSliceVarP(&deleteArgs.filename, "filename", "f", nil,
		"Path to Kubernetes manifest(s). If a directory is specified, then all manifests in the directory tree will be processed recursively.")
	deleteCmd.Flags().StringVarP(&deleteArgs.kustomize, "kustomize", "k", "",
		"Path to a directory that contains a kustomization.yaml.")

	rootCmd.AddCommand(deleteCmd)
}

func runDeleteCmd(cmd *cobra.Command, args []string) error {
	if deleteArgs.kustomize == "" && len(deleteArgs.filename) == 0 {
		return fmt.Errorf("-f or -k is required")
	}

	objects, err := loadObjects(deleteArgs.kustomize, deleteArgs.filename)
	if err != nil {
		return err
	}

	recon, err := newReconciler()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	// dependents go before their cluster definitions
	sort.Sort(sort.Reverse(ssa.SortableUnstructureds(objects)))

	for _, object := range objects {
		entry, err := recon.Delete(ctx, object)
		if err != nil {
			return err
		}
		rootCmd.Println(`►`, entry.String())
	}

	return nil
}
