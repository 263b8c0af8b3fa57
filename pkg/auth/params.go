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

package auth

import "strconv"

// FromParams builds Options from a normalized parameter map, reading
// the canonical authentication keys. Unknown keys are ignored so a full
// task parameter set can be passed as is.
func FromParams(params map[string]interface{}) Options {
	o := Options{
		Kubeconfig: stringParam(params, "kubeconfig"),
		Context:    stringParam(params, "context"),
		Host:       stringParam(params, "host"),
		APIKey:     stringParam(params, "api_key"),
		Username:   stringParam(params, "username"),
		Password:   stringParam(params, "password"),
		SSLCACert:  stringParam(params, "ssl_ca_cert"),
		CertFile:   stringParam(params, "cert_file"),
		KeyFile:    stringParam(params, "key_file"),
	}

	if v, ok := params["verify_ssl"]; ok && v != nil {
		switch b := v.(type) {
		case bool:
			o.VerifySSL = &b
		case string:
			if parsed, err := strconv.ParseBool(b); err == nil {
				o.VerifySSL = &parsed
			}
		}
	}

	return o
}

func stringParam(params map[string]interface{}, key string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
