package utils

import (
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/bsmider/reactorgen/errors"
)

// DescriptorExt is the extension of descriptor sets written by protoc.
const DescriptorExt = ".desc"

// ReadDescriptorSet reads a FileDescriptorSet written with --descriptor_set_out.
func ReadDescriptorSet(path string) (*descriptorpb.FileDescriptorSet, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read descriptor set %s", path)
	}
	set, err := BytesToType[*descriptorpb.FileDescriptorSet](payload)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode descriptor set %s", path)
	}
	return set, nil
}

// WriteDescriptorSet writes a FileDescriptorSet, creating parent directories.
func WriteDescriptorSet(path string, set *descriptorpb.FileDescriptorSet) error {
	payload, err := SerializeMessage(set)
	if err != nil {
		return errors.Wrap(err, "marshal error")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(path))
	}
	return os.WriteFile(path, payload, 0644)
}

// DescriptorPath returns where the descriptor set of a schema file goes:
// <dir>/<schema path without extension>.desc. schemaFile is relative to the
// source root, so schemas sharing a base name in different directories get
// distinct outputs.
func DescriptorPath(dir, schemaFile string) string {
	rel := filepath.Clean(schemaFile)
	return filepath.Join(dir, strings.TrimSuffix(rel, filepath.Ext(rel))+DescriptorExt)
}

// ServiceNames lists "<proto package>.<Service>" for every service in the set.
func ServiceNames(set *descriptorpb.FileDescriptorSet) []string {
	var out []string
	for _, f := range set.GetFile() {
		for _, s := range f.GetService() {
			name := s.GetName()
			if pkg := f.GetPackage(); pkg != "" {
				name = pkg + "." + name
			}
			out = append(out, name)
		}
	}
	return out
}

// MarshalDeterministic encodes msg with stable map ordering.
func MarshalDeterministic(msg proto.Message) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(msg)
}
