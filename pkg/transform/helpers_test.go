package transform

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/config"
	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/document"
)

const canonicalBlocks = `
- permutations:
    values:
      - sample-project1
      - sample-project2
      - sample-project3
  persistentVolumeTemplate:
    name:
      prefix: pv-myapp-live-
    spec:
      accessModes:
        - ReadWriteMany
      azureFile:
        secretName: myapp-azure-files-creds
        shareName: placeholder
        readOnly: false
      capacity:
        storage: 1Ti
      persistentVolumeReclaimPolicy: Retain
      storageClassName: ""
    injectedValues:
      - targetField: spec.azureFile.shareName
        prefix: myapp-
  persistentVolumeClaimTemplate:
    name:
      prefix: pvc-myapp-live-
    spec:
      accessModes:
        - ReadWriteMany
      resources:
        requests:
          storage: 1Ti
      storageClassName: ""
    injectedValues:
      - field: spec.volumeName
        prefix: pv-myapp-live-
  containerVolumeTemplates:
    - containers:
        - name: frontend-myapp
        - name: backend-myapp-api
      volumeTemplates:
        - name:
            prefix: vol-myapp-live-
          mergeSpec:
            persistentVolumeClaim:
              claimName: placeholder
          injectedValues:
            - targetField: persistentVolumeClaim.claimName
              prefix: pvc-myapp-live-
      volumeMountTemplates:
        - name:
            prefix: vol-myapp-live-
          mergeSpec:
            mountPath: placeholder
          injectedValues:
            - targetField: mountPath
              prefix: /mnt/share/
`

const canonicalResources = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: frontend
spec:
  template:
    spec:
      containers:
        - name: frontend-myapp
          image: myapp/frontend:1.0
          volumeMounts:
            - name: config
              mountPath: /etc/myapp
        - name: sidecar
          image: busybox
      volumes:
        - name: config
          configMap:
            name: myapp-config
---
apiVersion: apps/v1
kind: Deployment
metadata:
  name: backend
spec:
  template:
    spec:
      containers:
        - name: backend-myapp-api
          image: myapp/backend:1.0
---
apiVersion: v1
kind: Service
metadata:
  name: frontend
spec:
  ports:
    - port: 80
`

func decodeBlocks(t *testing.T, doc string) []config.TransformerConfig {
	t.Helper()
	var blocks []config.TransformerConfig
	require.NoError(t, yaml.Unmarshal([]byte(doc), &blocks))
	return blocks
}

func decodeResources(t *testing.T, doc string) []map[string]interface{} {
	t.Helper()
	var resources []map[string]interface{}
	decoder := yaml.NewDecoder(bytes.NewBufferString(doc))
	for {
		item := make(map[string]interface{})
		err := decoder.Decode(&item)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		resources = append(resources, item)
	}
	return resources
}

func get(t *testing.T, root map[string]interface{}, path string) interface{} {
	t.Helper()
	value, found, err := document.Get(root, path)
	require.NoError(t, err)
	require.True(t, found, "missing %s", path)
	return value
}

func byKind(resources []map[string]interface{}, kind string) []map[string]interface{} {
	var out []map[string]interface{}
	for _, r := range resources {
		if document.GetString(r, "kind") == kind {
			out = append(out, r)
		}
	}
	return out
}

func names(list []interface{}) []string {
	out := make([]string, len(list))
	for i, item := range list {
		out[i] = document.GetString(item.(map[string]interface{}), "name")
	}
	return out
}
