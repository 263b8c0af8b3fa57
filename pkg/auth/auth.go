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

// Package auth resolves which authentication mechanism to use for the
// target cluster from a layered set of sources: explicit parameters,
// environment variables, credential files and in-cluster discovery.
// The resolver returns an explicit rest.Config that the caller threads
// into its client constructor; no process-wide state is touched.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// DefaultEnvPrefix is prepended to the upper-cased field name when
// looking up the environment fallback, e.g. K8S_AUTH_HOST.
const DefaultEnvPrefix = "K8S_AUTH"

// Method identifies the authentication mechanism picked by the
// resolver. Exactly one method is chosen per resolution.
type Method string

const (
	// MethodParams builds the client configuration from explicit
	// credentials (basic-auth or bearer token plus host).
	MethodParams Method = "params"
	// MethodFile loads the client configuration from a kubeconfig file.
	MethodFile Method = "file"
	// MethodDefault tries in-cluster discovery, then the default
	// kubeconfig locations.
	MethodDefault Method = "default"
)

// Options holds the recognized authentication fields. Zero values mean
// "not supplied"; VerifySSL is a pointer so that an explicit false can
// be told apart from absent.
type Options struct {
	Kubeconfig string
	Context    string
	Host       string
	APIKey     string
	Username   string
	Password   string
	VerifySSL  *bool
	SSLCACert  string
	CertFile   string
	KeyFile    string

	// EnvPrefix overrides DefaultEnvPrefix for the environment fallback.
	EnvPrefix string
}

// ConfigError reports a credential file that could not be loaded.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("kubeconfig load failed: %v", e.Err)
	}
	return fmt.Sprintf("error loading kubeconfig %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Expand fills every absent field from its environment variable,
// named <PREFIX>_<FIELD_UPPER>. Explicit values always win over the
// environment; calling Expand twice is a no-op.
func (o Options) Expand() Options {
	prefix := o.EnvPrefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	fill := func(dst *string, field string) {
		if *dst == "" {
			if v := os.Getenv(prefix + "_" + field); v != "" {
				*dst = v
			}
		}
	}

	fill(&o.Kubeconfig, "KUBECONFIG")
	fill(&o.Context, "CONTEXT")
	fill(&o.Host, "HOST")
	fill(&o.APIKey, "API_KEY")
	fill(&o.Username, "USERNAME")
	fill(&o.Password, "PASSWORD")
	fill(&o.SSLCACert, "SSL_CA_CERT")
	fill(&o.CertFile, "CERT_FILE")
	fill(&o.KeyFile, "KEY_FILE")

	if o.VerifySSL == nil {
		if v := os.Getenv(prefix + "_VERIFY_SSL"); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				o.VerifySSL = &b
			}
		}
	}

	return o
}

// Method returns the authentication mechanism for the given options,
// first match wins: basic-auth credentials, bearer token, credential
// file, in-cluster discovery with kubeconfig fallback.
func (o Options) Method() Method {
	switch {
	case o.Username != "" && o.Password != "" && o.Host != "":
		return MethodParams
	case o.APIKey != "" && o.Host != "":
		return MethodParams
	case o.Kubeconfig != "" || o.Context != "":
		return MethodFile
	default:
		return MethodDefault
	}
}

// Resolve expands the options against the environment and builds the
// client configuration for the selected method. For MethodDefault the
// in-cluster configuration is tried first; only a not-in-cluster
// condition falls through to the default kubeconfig locations, any
// other error is returned as is.
func Resolve(opts Options) (*rest.Config, error) {
	o := opts.Expand()

	switch o.Method() {
	case MethodParams:
		return o.paramsConfig(), nil
	case MethodFile:
		return o.fileConfig()
	default:
		cfg, err := rest.InClusterConfig()
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, rest.ErrNotInCluster) {
			return nil, err
		}
		return o.fileConfig()
	}
}

// paramsConfig builds a rest.Config from the explicit fields. The API
// key is carried as a bearer token, which the transport sends as an
// 'Authorization: Bearer <token>' header.
func (o Options) paramsConfig() *rest.Config {
	cfg := &rest.Config{Host: o.Host}

	if o.Username != "" && o.Password != "" {
		cfg.Username = o.Username
		cfg.Password = o.Password
	} else if o.APIKey != "" {
		cfg.BearerToken = o.APIKey
	}

	tls := rest.TLSClientConfig{
		CertFile: o.CertFile,
		KeyFile:  o.KeyFile,
	}
	if o.VerifySSL != nil && !*o.VerifySSL {
		tls.Insecure = true
	} else {
		tls.CAFile = o.SSLCACert
	}
	cfg.TLSClientConfig = tls

	cfg.QPS = 50
	cfg.Burst = 100

	return cfg
}

// fileConfig loads a rest.Config from the named kubeconfig, or from the
// default locations when no path is given. With an explicit path every
// failure is fatal. Without one, an empty-config condition falls back
// to a configuration built from the remaining fields, so that an
// environment-supplied host survives outside a cluster.
func (o Options) fileConfig() (*rest.Config, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if o.Kubeconfig != "" {
		if paths := filepath.SplitList(o.Kubeconfig); len(paths) > 1 {
			rules.Precedence = paths
		} else {
			rules.ExplicitPath = o.Kubeconfig
		}
	}

	overrides := &clientcmd.ConfigOverrides{CurrentContext: o.Context}

	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		if o.Kubeconfig == "" && clientcmd.IsEmptyConfig(err) {
			return o.paramsConfig(), nil
		}
		return nil, &ConfigError{Path: o.Kubeconfig, Err: err}
	}

	cfg.QPS = 50
	cfg.Burst = 100

	return cfg, nil
}
