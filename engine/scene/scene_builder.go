package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithEnvironment sets the initial scene-wide lighting settings.
//
// Parameters:
//   - env: the environment
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithEnvironment(env Environment) SceneBuilderOption {
	return func(s *scene) {
		s.env = env
	}
}
