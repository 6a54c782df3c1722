package factory

// GeneratedFile describes one emitted source file.
type GeneratedFile struct {
	Class        string // qualified name, e.g. "example.com/app/reactive.OrderGrpcClient"
	Package      string // import path of the file's package
	FullPath     string // absolute or cwd-relative path written
	RelativePath string // path relative to CodeGenConfig.OutputDir
	Size         int
}
