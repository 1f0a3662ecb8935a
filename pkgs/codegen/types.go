package codegen

// File is the `.h`/`.c` pair for one compiled module, mirroring the
// original compiler's generator::project::File (header/src text built up
// incrementally, then wrapped in an include guard once generation
// finishes).
type File struct {
	Name   string
	Header string
	Src    string
}

// Project is every File a compilation produced, keyed by module name —
// always just "main" for the single-module CLI this repo drives, but
// kept as a map so a future multi-file module resolver has somewhere to
// put additional members without reshaping the emitter.
type Project struct {
	Files map[string]*File
}

// NewProject creates an empty Project.
func NewProject() *Project {
	return &Project{Files: map[string]*File{}}
}

// File returns the named File, creating it if this is the first write.
func (p *Project) File(name string) *File {
	if f, ok := p.Files[name]; ok {
		return f
	}
	f := &File{Name: name}
	p.Files[name] = f
	return f
}
