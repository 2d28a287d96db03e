// Package paths resolves the working root envrender operates on.
//
// The root is the directory holding the environment file, the optional
// configuration file and the templates. It is taken, in order, from an
// explicit value, the ENVRENDER_ROOT environment variable, the enclosing git
// repository, or the current directory.
package paths
