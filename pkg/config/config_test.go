package config

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleConfig = `apiVersion: kubernetes.inveniem.com/storage-config-transformer/v1alpha
kind: StorageConfigTransformer
metadata:
  name: storage-config
spec:
  - permutations:
      values:
        - sample-project1
        - sample-project2
    persistentVolumeTemplate:
      name:
        prefix: pv-myapp-live-
      spec:
        accessModes:
          - ReadWriteMany
      injectedValues:
        - field: spec.azureFile.shareName
          prefix: myapp-
        - targetField: spec.csi.volumeHandle
          field: ignored.when.targetField.is.set
    containerVolumeTemplates:
      - containers:
          - name: frontend-myapp
        volumeMountTemplates:
          - name:
              prefix: vol-
            mergeSpec:
              readOnly: false
            injectedValues:
              - targetField: mountPath
                prefix: /mnt/share/
`

func TestUnmarshal(t *testing.T) {
	cfg, err := Unmarshal([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, APIVersion, cfg.APIVersion)
	assert.Equal(t, Kind, cfg.Kind)
	require.Len(t, cfg.Spec, 1)

	block := cfg.Spec[0]
	require.NotNil(t, block.Permutations)
	assert.Equal(t, []string{"sample-project1", "sample-project2"}, block.Permutations.Values)
	assert.Nil(t, block.PersistentVolumeClaimTemplate)

	pv := block.PersistentVolumeTemplate
	require.NotNil(t, pv)
	assert.Equal(t, "pv-myapp-live-", pv.Name.Prefix)
	assert.Equal(t, "", pv.Name.Suffix)
	assert.Equal(t, []interface{}{"ReadWriteMany"}, pv.Spec["accessModes"])

	require.Len(t, pv.InjectedValues, 2)
	assert.Equal(t, "spec.azureFile.shareName", pv.InjectedValues[0].TargetField)
	assert.True(t, pv.InjectedValues[0].FromDeprecatedField)
	assert.Equal(t, "spec.csi.volumeHandle", pv.InjectedValues[1].TargetField)
	assert.False(t, pv.InjectedValues[1].FromDeprecatedField)

	require.Len(t, block.ContainerVolumeTemplates, 1)
	cvt := block.ContainerVolumeTemplates[0]
	assert.Equal(t, []ContainerRef{{Name: "frontend-myapp"}}, cvt.Containers)
	require.Len(t, cvt.VolumeMountTemplates, 1)
	assert.Equal(t, "mountPath", cvt.VolumeMountTemplates[0].InjectedValues[0].TargetField)
	assert.Equal(t, false, cvt.VolumeMountTemplates[0].MergeSpec["readOnly"])
}

func TestUnmarshalMissingTargetFieldStaysEmpty(t *testing.T) {
	cfg, err := Unmarshal([]byte(`spec:
  - persistentVolumeTemplate:
      injectedValues:
        - prefix: only-a-prefix
`))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Spec[0].PersistentVolumeTemplate.InjectedValues[0].TargetField)
}

func TestDecodeShapeError(t *testing.T) {
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("spec: not-a-list\n"), &node))

	_, err := Decode(node.Content[0])
	require.Error(t, err)
	assert.True(t, IsError(err))
	assert.Contains(t, err.Error(), "cannot decode functionConfig")
}

func TestDecodeEmptyNode(t *testing.T) {
	cfg, err := Decode(&yaml.Node{})
	require.NoError(t, err)
	assert.Empty(t, cfg.Spec)
}

func TestCheckTypeMeta(t *testing.T) {
	require.NoError(t, CheckTypeMeta(APIVersion, Kind))

	err := CheckTypeMeta(APIVersion, "ValueTransformer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ValueTransformer"`)
	assert.Contains(t, err.Error(), `"StorageConfigTransformer"`)

	err = CheckTypeMeta("beeper.com/v1", Kind)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"beeper.com/v1"`)
	assert.Contains(t, err.Error(), APIVersion)
}

func TestIsError(t *testing.T) {
	err := errors.Wrapf(Errorf("permutation value must not be empty"), "spec[%d]", 2)
	assert.True(t, IsError(err))
	assert.Equal(t, "spec[2]: permutation value must not be empty", err.Error())

	assert.False(t, IsError(errors.New("boom")))
	assert.False(t, IsError(nil))
}
