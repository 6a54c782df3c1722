package config

import (
	"github.com/spf13/viper"

	"github.com/bsmider/reactorgen/factory"
	"github.com/bsmider/reactorgen/factory/orchestrator"
	"github.com/bsmider/reactorgen/factory/plugin"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	codegen := factory.DefaultCodeGenConfig()
	v.SetDefault("base_package", "")
	v.SetDefault("service_label", codegen.ServiceLabel)
	v.SetDefault("channel_label", codegen.ChannelLabel)
	v.SetDefault("output_dir", codegen.OutputDir)

	v.SetDefault("source", "src/main/proto")
	v.SetDefault("descriptor_dir", "build/descriptors")
	v.SetDefault("generated_dir", "build/generated")
	v.SetDefault("stub_dir", "")
	v.SetDefault("stub_import_path", "")

	v.SetDefault("workers", orchestrator.DefaultWorkers())
	v.SetDefault("timeout", "60s")

	v.SetDefault("protoc.executable", "protoc")
	v.SetDefault("protoc.extra_args", "")

	v.SetDefault("plugin.name", plugin.DefaultName)
	v.SetDefault("plugin.version", plugin.DefaultVersion)
	v.SetDefault("plugin.url", "")
	v.SetDefault("plugin.cache_dir", plugin.DefaultCacheDir())
}
