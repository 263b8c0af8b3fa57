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
	"strings"

	"github.com/spf13/cobra"

	"github.com/kubestate/kstate/pkg/cluster"
	"github.com/kubestate/kstate/pkg/drift"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Diff compares the local Kubernetes manifests with the in-cluster objects and prints the field changes to stdout.",
	RunE:  runDiffCmd,
}

type diffFlags struct {
	filename  []string
	kustomize string
}

var diffArgs diffFlags

func init() {
	diffCmd.Flags().StringSliceVarP(&diffArgs.filename, "filename", "f", nil,
		"Path to Kubernetes manifest(s). If a directory is specified, then all manifests in the directory tree will be processed recursively.")
	diffCmd.Flags().StringVarP(&diffArgs.kustomize, "kustomize", "k", "",
		"Path to a directory that contains a kustomization.yaml.")

	rootCmd.AddCommand(diffCmd)
}

func runDiffCmd(cmd *cobra.Command, args []string) error {
	if diffArgs.kustomize == "" && len(diffArgs.filename) == 0 {
		return fmt.Errorf("-f or -k is required")
	}

	objects, err := loadObjects(diffArgs.kustomize, diffArgs.filename)
	if err != nil {
		return err
	}

	recon, err := newReconciler()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	invalid := false
	for _, object := range objects {
		entry, err := recon.Diff(ctx, object)
		if err != nil {
			logger.Println(`✗`, err)
			invalid = true
			continue
		}

		mask := object.GetKind() == "Secret"

		switch entry.Action {
		case cluster.CreatedAction:
			rootCmd.Println(`►`, entry.Subject, "created")
		case cluster.ConfiguredAction:
			rootCmd.Println(`►`, entry.Subject, "drifted")
			printChanges(entry.Changes, mask)
		}
	}

	if invalid {
		return fmt.Errorf("diff failed")
	}

	return nil
}

func printChanges(changes []drift.FieldChange, mask bool) {
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		oldVal, newVal := fmt.Sprintf("%v", c.Old), fmt.Sprintf("%v", c.New)
		if mask {
			oldVal, newVal = "*****", "******"
		}
		rows = append(rows, []string{strings.Join(c.Path, "."), string(c.Kind), oldVal, newVal})
	}
	printTable(rootCmd.OutOrStdout(), []string{"field", "change", "existing", "desired"}, rows)
}
