// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package registry

// defaultFamilies builds the seven family descriptors named in spec.md §6
// ("Custom resource surface"). Credential key names follow the examples in
// spec.md §4.1 and §8 (the Redis key set is given literally in the scenario
// walkthrough); the remaining families follow the same naming convention
// observed in original_source/src/svc/crd/*.rs (one env-var-shaped key per
// connection parameter, family prefix in uppercase).
func defaultFamilies() []FamilyDescriptor {
	return []FamilyDescriptor{
		postgreSqlDescriptor(),
		mySqlDescriptor(),
		redisDescriptor(),
		mongoDbDescriptor(),
		elasticSearchDescriptor(),
		configProviderDescriptor(),
		pulsarDescriptor(),
	}
}

// projectPrefixed builds a CredentialsProjection that copies every
// (remoteKey -> envKey) pair present in the vendor record, skipping pairs
// whose remote key is absent. Missing keys are omitted rather than
// published as empty, so that a partially-ready credential set (if the
// vendor ever returns one) does not look ready.
func projectPrefixed(mapping map[string]string) CredentialsProjection {
	return func(remote map[string]string) map[string][]byte {
		out := make(map[string][]byte, len(mapping))
		for remoteKey, envKey := range mapping {
			if v, ok := remote[remoteKey]; ok {
				out[envKey] = []byte(v)
			}
		}
		return out
	}
}

func postgreSqlDescriptor() FamilyDescriptor {
	return &baseDescriptor{
		name:                "postgresql",
		gvk:                 gvk("PostgreSql", false),
		plural:              "postgresqls",
		shortNames:          []string{"pg"},
		remoteProviderID:    "postgresql-addon",
		supportsInstance:    true,
		supportsOptions:     true,
		immutableOptionKeys: []string{"version", "encryption"},
		project: projectPrefixed(map[string]string{
			"host":     "POSTGRESQL_HOST",
			"port":     "POSTGRESQL_PORT",
			"database": "POSTGRESQL_DATABASE",
			"user":     "POSTGRESQL_USER",
			"password": "POSTGRESQL_PASSWORD",
			"uri":      "POSTGRESQL_URL",
			"version":  "POSTGRESQL_VERSION",
		}),
	}
}

func mySqlDescriptor() FamilyDescriptor {
	return &baseDescriptor{
		name:                "mysql",
		gvk:                 gvk("MySql", false),
		plural:              "mysqls",
		shortNames:          []string{"mysql"},
		remoteProviderID:    "mysql-addon",
		supportsInstance:    true,
		supportsOptions:     true,
		immutableOptionKeys: []string{"version", "encryption"},
		project: projectPrefixed(map[string]string{
			"host":     "MYSQL_ADDON_HOST",
			"port":     "MYSQL_ADDON_PORT",
			"database": "MYSQL_ADDON_DB",
			"user":     "MYSQL_ADDON_USER",
			"password": "MYSQL_ADDON_PASSWORD",
			"uri":      "MYSQL_ADDON_URI",
			"version":  "MYSQL_VERSION",
		}),
	}
}

func redisDescriptor() FamilyDescriptor {
	return &baseDescriptor{
		name:                "redis",
		gvk:                 gvk("Redis", false),
		plural:              "redis",
		shortNames:          []string{"redis"},
		remoteProviderID:    "redis-addon",
		supportsInstance:    true,
		supportsOptions:     true,
		immutableOptionKeys: []string{"version"},
		project: projectPrefixed(map[string]string{
			"host":     "REDIS_HOST",
			"port":     "REDIS_PORT",
			"password": "REDIS_PASSWORD",
			"token":    "REDIS_TOKEN",
			"uri":      "REDIS_URL",
			"version":  "REDIS_VERSION",
		}),
	}
}

func mongoDbDescriptor() FamilyDescriptor {
	return &baseDescriptor{
		name:                "mongodb",
		gvk:                 gvk("MongoDb", false),
		plural:              "mongodbs",
		shortNames:          []string{"mongo"},
		remoteProviderID:    "mongodb-addon",
		supportsInstance:    true,
		supportsOptions:     true,
		immutableOptionKeys: []string{"version", "encryption"},
		project: projectPrefixed(map[string]string{
			"host":     "MONGODB_ADDON_HOST",
			"port":     "MONGODB_ADDON_PORT",
			"database": "MONGODB_ADDON_DB",
			"user":     "MONGODB_ADDON_USER",
			"password": "MONGODB_ADDON_PASSWORD",
			"uri":      "MONGODB_ADDON_URI",
			"version":  "MONGODB_VERSION",
		}),
	}
}

func elasticSearchDescriptor() FamilyDescriptor {
	return &baseDescriptor{
		name:                "elasticsearch",
		gvk:                 gvk("ElasticSearch", false),
		plural:              "elasticsearches",
		shortNames:          []string{"es"},
		remoteProviderID:    "es-addon",
		supportsInstance:    true,
		supportsOptions:     true,
		immutableOptionKeys: []string{"version", "encryption", "kibana", "apm"},
		project: projectPrefixed(map[string]string{
			"host":          "ES_ADDON_HOST",
			"port":          "ES_ADDON_PORT",
			"user":          "ES_ADDON_USER",
			"password":      "ES_ADDON_PASSWORD",
			"uri":           "ES_ADDON_URI",
			"kibanaUri":     "KIBANA_ADDON_URI",
			"apmUri":        "APM_ADDON_URI",
			"apmToken":      "APM_ADDON_TOKEN",
			"version":       "ES_ADDON_VERSION",
		}),
	}
}

func configProviderDescriptor() FamilyDescriptor {
	return &baseDescriptor{
		name:               "configprovider",
		gvk:                gvk("ConfigProvider", false),
		plural:             "configproviders",
		shortNames:         []string{"cfgp"},
		remoteProviderID:   "config-provider",
		supportsInstance:   false,
		supportsOptions:    false,
		pushVariablesDrift: true,
		// ConfigProvider publishes the user-supplied variables verbatim;
		// the vendor echoes back whatever was last pushed.
		project: func(remote map[string]string) map[string][]byte {
			out := make(map[string][]byte, len(remote))
			for k, v := range remote {
				out[k] = []byte(v)
			}
			return out
		},
	}
}

func pulsarDescriptor() FamilyDescriptor {
	return &baseDescriptor{
		name:             "pulsar",
		gvk:              gvk("Pulsar", true),
		plural:           "pulsars",
		shortNames:       []string{"pulsar"},
		remoteProviderID: "pulsar",
		supportsInstance: false,
		supportsOptions:  false,
		project: projectPrefixed(map[string]string{
			"serviceUrl":    "PULSAR_SERVICE_URL",
			"webServiceUrl": "PULSAR_WEB_SERVICE_URL",
			"token":         "PULSAR_TOKEN",
			"tenant":        "PULSAR_TENANT",
			"namespace":     "PULSAR_NAMESPACE",
		}),
	}
}
