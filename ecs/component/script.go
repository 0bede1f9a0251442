package component

// Script binds a tengo hook file to an entity. Global scripts receive the
// hooks of every entity instead of only their own.
type Script struct {
	Path   string
	Global bool
}

var ScriptComponent = NewComponent[Script]()
