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
	"os"
	"time"

	"github.com/spf13/cobra"
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	"github.com/kubestate/kstate/pkg/auth"
	"github.com/kubestate/kstate/pkg/cluster"
	"github.com/kubestate/kstate/pkg/config"
)

var VERSION = "1.0.0-dev.0"

const PROJECT = "kstate"

var rootCmd = &cobra.Command{
	Use:           PROJECT,
	Version:       VERSION,
	SilenceUsage:  true,
	SilenceErrors: true,
	Short:         "A command line utility to validate, diff and reconcile Kubernetes resources from declarative task definitions.",
	Long: `Kstate resolves cluster authentication from a layered set of sources
(flags, environment variables, kubeconfig files, in-cluster discovery)
and reconciles multi-doc Kubernetes manifests against the live state.

Render manifests:

- kstate build [-f <path>] [-k <overlay path>] [-o yaml|json]

Compare the desired state with the cluster:

- kstate diff [-f <path>] [-k <overlay path>]

Reconcile resources:

- kstate apply [-f <path>] [-k <overlay path>]
- kstate delete [-f <path>] [-k <overlay path>]

Manage the kstate defaults:

- kstate config init
- kstate config view
`,
}

type rootFlags struct {
	timeout time.Duration
}

type authFlags struct {
	kubeconfig  string
	kubecontext string
	host        string
	apiKey      string
	username    string
	password    string
	verifySSL   bool
	sslCACert   string
	certFile    string
	keyFile     string
}

var (
	rootArgs = rootFlags{}
	authArgs = authFlags{}
	logger   = stderrLogger{stderr: os.Stderr}
	cfg      = config.NewConfig()
)

func init() {
	rootCmd.PersistentFlags().DurationVar(&rootArgs.timeout, "timeout", time.Minute,
		"The length of time to wait before giving up on the current operation.")

	rootCmd.PersistentFlags().StringVar(&authArgs.kubeconfig, "kubeconfig", "",
		"Path to the kubeconfig file to use for requests.")
	rootCmd.PersistentFlags().StringVar(&authArgs.kubecontext, "context", "",
		"The name of the kubeconfig context to use.")
	rootCmd.PersistentFlags().StringVar(&authArgs.host, "host", "",
		"The address of the Kubernetes API server.")
	rootCmd.PersistentFlags().StringVar(&authArgs.apiKey, "api-key", "",
		"Token used to authenticate against the API server.")
	rootCmd.PersistentFlags().StringVar(&authArgs.username, "username", "",
		"Username for basic authentication against the API server.")
	rootCmd.PersistentFlags().StringVar(&authArgs.password, "password", "",
		"Password for basic authentication against the API server.")
	rootCmd.PersistentFlags().BoolVar(&authArgs.verifySSL, "verify-ssl", true,
		"Verify the API server's TLS certificate.")
	rootCmd.PersistentFlags().StringVar(&authArgs.sslCACert, "ssl-ca-cert", "",
		"Path to a CA certificate used to verify the API server.")
	rootCmd.PersistentFlags().StringVar(&authArgs.certFile, "cert-file", "",
		"Path to a client certificate for TLS authentication.")
	rootCmd.PersistentFlags().StringVar(&authArgs.keyFile, "key-file", "",
		"Path to a client key for TLS authentication.")

	rootCmd.DisableAutoGenTag = true
	rootCmd.SetOut(os.Stdout)
}

func main() {
	loadConfig()
	if err := rootCmd.Execute(); err != nil {
		logger.Println(`✗`, err)
		os.Exit(1)
	}
}

func loadConfig() {
	if c, err := config.Read(""); err != nil {
		logger.Println(`✗`, fmt.Errorf("loading the config failed, error: %w", err))
	} else {
		cfg = c
	}
}

// authOptions layers the authentication sources: explicit flags win,
// the config file fills remaining fields, and the environment fallback
// inside the resolver sits underneath both.
func authOptions() auth.Options {
	opts := auth.Options{
		Kubeconfig: authArgs.kubeconfig,
		Context:    authArgs.kubecontext,
		Host:       authArgs.host,
		APIKey:     authArgs.apiKey,
		Username:   authArgs.username,
		Password:   authArgs.password,
		SSLCACert:  authArgs.sslCACert,
		CertFile:   authArgs.certFile,
		KeyFile:    authArgs.keyFile,
		EnvPrefix:  cfg.EnvPrefix,
	}

	if rootCmd.PersistentFlags().Changed("verify-ssl") {
		v := authArgs.verifySSL
		opts.VerifySSL = &v
	}

	if cfg.Auth != nil {
		if opts.Kubeconfig == "" {
			opts.Kubeconfig = cfg.Auth.Kubeconfig
		}
		if opts.Context == "" {
			opts.Context = cfg.Auth.Context
		}
		if opts.Host == "" {
			opts.Host = cfg.Auth.Host
		}
		if opts.VerifySSL == nil {
			opts.VerifySSL = cfg.Auth.VerifySSL
		}
	}

	return opts
}

func newReconciler() (*cluster.Reconciler, error) {
	restCfg, err := auth.Resolve(authOptions())
	if err != nil {
		return nil, fmt.Errorf("auth resolution failed: %w", err)
	}

	kubeClient, err := cluster.NewClient(restCfg)
	if err != nil {
		return nil, err
	}

	return cluster.NewReconciler(kubeClient, cfg.FieldManager), nil
}
