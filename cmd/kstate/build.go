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
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/cli-runtime/pkg/printers"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build loads the given Kubernetes manifests or Kustomize overlays and prints the multi-doc to stdout.",
	RunE:  runBuildCmd,
}

type buildFlags struct {
	filename  []string
	kustomize string
	output    string
}

var buildArgs buildFlags

func init() {
	buildCmd.Flags().StringSliceVarP(&buildArgs.filename, "filename", "f", nil,
		"Path to Kubernetes manifest(s). If a directory is specified, then all manifests in the directory tree will be processed recursively.")
	buildCmd.Flags().StringVarP(&buildArgs.kustomize, "kustomize", "k", "",
		"Path to a directory that contains a kustomization.yaml.")
	buildCmd.Flags().StringVarP(&buildArgs.output, "output", "o", "yaml",
		"Write manifests to stdout in YAML or JSON format.")

	rootCmd.AddCommand(buildCmd)
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	if buildArgs.kustomize == "" && len(buildArgs.filename) == 0 {
		return fmt.Errorf("-f or -k is required")
	}

	objects, err := loadObjects(buildArgs.kustomize, buildArgs.filename)
	if err != nil {
		return err
	}

	switch buildArgs.output {
	case "yaml":
		printer := &printers.YAMLPrinter{}
		for _, obj := range objects {
			if err := printer.PrintObj(obj, cmd.OutOrStdout()); err != nil {
				return err
			}
		}
	case "json":
		list := &unstructured.UnstructuredList{}
		list.SetAPIVersion("v1")
		list.SetKind("List")
		for _, obj := range objects {
			list.Items = append(list.Items, *obj)
		}
		printer := &printers.JSONPrinter{}
		if err := printer.PrintObj(list, cmd.OutOrStdout()); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output, can be yaml or json")
	}

	return nil
}
