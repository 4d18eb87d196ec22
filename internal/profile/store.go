package profile

import "github.com/geotess/geotess-go/internal/errs"

// Store is the dense (vertex, layer) -> Profile table a Model owns
// exclusively (§3 "a Model exclusively owns its metadata and its profile
// table"). All vertices carry a profile for every layer; layers where a
// vertex has no data use an Empty profile rather than a hole in the table,
// matching §4.2's point-map density invariant.
type Store struct {
	nVertices int
	nLayers   int
	profiles  [][]Profile // profiles[vertex][layer]
}

// NewStore allocates a Store sized for nVertices vertices and nLayers
// layers, with every slot defaulting to an Empty profile at zero radii;
// callers populate real profiles via SetProfile.
func NewStore(nVertices, nLayers int) *Store {
	profiles := make([][]Profile, nVertices)
	for v := range profiles {
		row := make([]Profile, nLayers)
		for l := range row {
			row[l] = NewEmpty(0, 0)
		}
		profiles[v] = row
	}
	return &Store{nVertices: nVertices, nLayers: nLayers, profiles: profiles}
}

// NVertices returns the number of vertices the store is sized for.
func (s *Store) NVertices() int { return s.nVertices }

// NLayers returns the number of layers the store is sized for.
func (s *Store) NLayers() int { return s.nLayers }

func (s *Store) checkBounds(vertex, layer int) error {
	if vertex < 0 || vertex >= s.nVertices {
		return &errs.InvalidInput{Field: "vertex", Value: vertex, Reason: "out of range"}
	}
	if layer < 0 || layer >= s.nLayers {
		return &errs.InvalidInput{Field: "layer", Value: layer, Reason: "out of range"}
	}
	return nil
}

// Profile returns the profile at (vertex, layer).
func (s *Store) Profile(vertex, layer int) (Profile, error) {
	if err := s.checkBounds(vertex, layer); err != nil {
		return Profile{}, err
	}
	return s.profiles[vertex][layer], nil
}

// SetProfile replaces the profile at (vertex, layer).
func (s *Store) SetProfile(vertex, layer int, p Profile) error {
	if err := s.checkBounds(vertex, layer); err != nil {
		return err
	}
	s.profiles[vertex][layer] = p
	return nil
}

// NRadii returns the number of radii of the profile at (vertex, layer).
func (s *Store) NRadii(vertex, layer int) (int, error) {
	p, err := s.Profile(vertex, layer)
	if err != nil {
		return 0, err
	}
	return p.NRadii(), nil
}

// Radius returns the i'th radius of the profile at (vertex, layer).
func (s *Store) Radius(vertex, layer, i int) (float64, error) {
	p, err := s.Profile(vertex, layer)
	if err != nil {
		return 0, err
	}
	return p.Radius(i), nil
}

// Value returns the attr'th attribute value at node i of the profile at
// (vertex, layer).
func (s *Store) Value(vertex, layer, attr, i int) (float64, error) {
	p, err := s.Profile(vertex, layer)
	if err != nil {
		return 0, err
	}
	return p.Cell(i).Value(attr), nil
}
