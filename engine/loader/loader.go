// Package loader imports glTF 2.0 models (.gltf with external or embedded buffers, and .glb)
// into meshes, materials and textures, and instantiates their node hierarchy in a scene graph.
package loader

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/asset"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// settings controls how glTF materials map onto engine materials.
type settings struct {
	lit         bool
	shadows     bool
	ambient     common.Color
	textureUnit uint32
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	dev      device.Device
	fetcher  *asset.Fetcher
	settings settings

	modelCache map[string]*Model
	log        *zap.Logger
}

// Loader imports glTF models and caches them by URI.
type Loader interface {
	// Load imports the model at uri, or returns the cached model for that uri.
	// Files are fetched and images decoded on the fetcher's workers; GPU resources are created
	// on the calling goroutine, which must own the device's context.
	//
	// Parameters:
	//   - ctx: cancels outstanding fetches
	//   - uri: a path, file://, http(s):// or data: URI of a .gltf or .glb document
	//
	// Returns:
	//   - *Model: the loaded model
	//   - error: error if fetching, parsing or resource creation fails
	Load(ctx context.Context, uri string) (*Model, error)

	// Get retrieves a cached model. Returns nil if uri was never loaded.
	Get(uri string) *Model

	// Models returns a copy of the model cache keyed by uri.
	Models() map[string]*Model
}

var _ Loader = &loader{}

// NewLoader creates a Loader that creates resources on dev.
//
// Parameters:
//   - dev: the device resources are created on
//   - fetcher: the fetcher used for documents, buffers and images; nil creates a default one
//   - options: functional options for material mapping
//
// Returns:
//   - Loader: the new loader
func NewLoader(dev device.Device, fetcher *asset.Fetcher, options ...LoaderBuilderOption) Loader {
	l := &loader{
		dev:     dev,
		fetcher: fetcher,
		settings: settings{
			lit:         true,
			ambient:     common.RGB(0.2, 0.2, 0.2),
			textureUnit: 1,
		},
		modelCache: make(map[string]*Model),
		log:        logger.Named("loader"),
	}
	for _, opt := range options {
		opt(l)
	}
	if l.fetcher == nil {
		l.fetcher = asset.NewFetcher()
	}
	return l
}

func (l *loader) Get(uri string) *Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[uri]
}

func (l *loader) Models() map[string]*Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cp := make(map[string]*Model, len(l.modelCache))
	for k, v := range l.modelCache {
		cp[k] = v
	}
	return cp
}

func (l *loader) Load(ctx context.Context, uri string) (*Model, error) {
	if m := l.Get(uri); m != nil {
		return m, nil
	}

	data, err := l.fetcher.FetchBuffer(ctx, uri).Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch model: %w", err)
	}
	gltf, bin, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", uri, err)
	}

	buffers, err := l.loadBuffers(ctx, uri, gltf, bin)
	if err != nil {
		return nil, fmt.Errorf("failed to load buffers of %q: %w", uri, err)
	}
	doc := newDocument(l.dev, gltf, buffers)

	images, err := l.loadImages(ctx, uri, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to load images of %q: %w", uri, err)
	}

	m, err := l.build(uri, doc, images)
	if err != nil {
		return nil, fmt.Errorf("failed to build %q: %w", uri, err)
	}

	l.mu.Lock()
	if cached, ok := l.modelCache[uri]; ok {
		l.mu.Unlock()
		m.Release(l.dev)
		return cached, nil
	}
	l.modelCache[uri] = m
	l.mu.Unlock()

	l.log.Info("loaded model",
		zap.String("uri", uri),
		zap.Int("nodes", len(m.nodes)),
		zap.Int("meshes", len(m.meshes)),
		zap.Int("materials", len(m.materials)),
		zap.Int("textures", len(m.textures)))
	return m, nil
}

// loadBuffers fetches every external buffer concurrently. A buffer without a uri is the GLB binary chunk.
func (l *loader) loadBuffers(ctx context.Context, base string, doc *gltfDocument, bin []byte) ([]*buffer.Buffer, error) {
	futures := make([]*asset.Future[[]byte], len(doc.Buffers))
	uris := make([]string, len(doc.Buffers))
	for i, b := range doc.Buffers {
		if b.URI == "" {
			if i != 0 || bin == nil {
				return nil, fmt.Errorf("buffer %d has no uri and no GLB binary chunk", i)
			}
			futures[i] = asset.Resolved(bin, nil)
			continue
		}
		uris[i] = resolveURI(base, b.URI)
		futures[i] = l.fetcher.FetchBuffer(ctx, uris[i])
	}

	buffers := make([]*buffer.Buffer, len(doc.Buffers))
	for i, f := range futures {
		data, err := f.Await(ctx)
		if err != nil {
			return nil, fmt.Errorf("buffer %d: %w", i, err)
		}
		want := doc.Buffers[i].ByteLength
		if len(data) < want {
			return nil, fmt.Errorf("buffer %d: declares %d bytes, got %d", i, want, len(data))
		}
		buffers[i] = buffer.NewBufferFromURI(uris[i], data[:want])
	}
	return buffers, nil
}

// loadImages decodes every image. External images are fetched and decoded concurrently.
func (l *loader) loadImages(ctx context.Context, base string, doc *document) ([]asset.Image, error) {
	futures := make([]*asset.Future[asset.Image], len(doc.gltf.Images))
	for i, img := range doc.gltf.Images {
		switch {
		case img.BufferView != nil:
			data, err := doc.viewBytes(*img.BufferView)
			if err != nil {
				return nil, fmt.Errorf("image %d: %w", i, err)
			}
			decoded, err := asset.DecodeImage(data)
			futures[i] = asset.Resolved(decoded, err)
		case img.URI != "":
			futures[i] = l.fetcher.FetchImage(ctx, resolveURI(base, img.URI))
		default:
			return nil, fmt.Errorf("image %d has neither uri nor buffer view", i)
		}
	}

	images := make([]asset.Image, len(futures))
	for i, f := range futures {
		img, err := f.Await(ctx)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		images[i] = img
	}
	return images, nil
}

// build creates meshes, materials and textures and records the node hierarchy.
func (l *loader) build(uri string, doc *document, images []asset.Image) (m *Model, err error) {
	mats := newMaterialSet(doc, images, l.settings)
	m = &Model{name: uri}
	defer func() {
		m.views = collectViews(doc)
		m.materials = collectMaterials(mats)
		m.textures = collectTextures(mats)
		if err != nil {
			m.Release(l.dev)
		}
	}()

	m.meshes = make([]*mesh.Mesh, len(doc.gltf.Meshes))
	for i := range doc.gltf.Meshes {
		if m.meshes[i], err = doc.mesh(i, mats.get); err != nil {
			return m, err
		}
	}

	m.nodes = make([]node, len(doc.gltf.Nodes))
	parents := make([]int, len(doc.gltf.Nodes))
	for i, gn := range doc.gltf.Nodes {
		n := node{name: gn.Name, mesh: -1, children: gn.Children, local: localTransform(gn)}
		if gn.Mesh != nil {
			if *gn.Mesh < 0 || *gn.Mesh >= len(m.meshes) {
				return m, fmt.Errorf("node %d: mesh %d out of range", i, *gn.Mesh)
			}
			n.mesh = *gn.Mesh
		}
		for _, c := range gn.Children {
			if c < 0 || c >= len(doc.gltf.Nodes) {
				return m, fmt.Errorf("node %d: child %d out of range", i, c)
			}
			parents[c]++
			if parents[c] > 1 {
				return m, fmt.Errorf("node %d has more than one parent", c)
			}
		}
		m.nodes[i] = n
	}

	switch {
	case len(doc.gltf.Scenes) > 0:
		s := common.ValueOr(doc.gltf.Scene, 0)
		if s < 0 || s >= len(doc.gltf.Scenes) {
			return m, fmt.Errorf("default scene %d out of range", s)
		}
		m.roots = doc.gltf.Scenes[s].Nodes
		for _, r := range m.roots {
			if r < 0 || r >= len(m.nodes) {
				return m, fmt.Errorf("scene %d: node %d out of range", s, r)
			}
		}
	default:
		for i, p := range parents {
			if p == 0 {
				m.roots = append(m.roots, i)
			}
		}
	}
	return m, nil
}

// localTransform returns the node's matrix, or T * R * S from its components.
func localTransform(n gltfNode) mgl32.Mat4 {
	if n.Matrix != nil {
		return mgl32.Mat4(*n.Matrix)
	}
	m := mgl32.Ident4()
	if t := n.Translation; t != nil {
		m = mgl32.Translate3D(t[0], t[1], t[2])
	}
	if r := n.Rotation; r != nil {
		m = m.Mul4(mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize().Mat4())
	}
	if s := n.Scale; s != nil {
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}

// resolveURI resolves ref against the uri of the document that names it.
// Absolute URIs and data URIs are returned unchanged.
func resolveURI(base, ref string) string {
	if strings.HasPrefix(ref, "data:") {
		return ref
	}
	r, err := url.Parse(ref)
	if err == nil && r.Scheme != "" {
		return ref
	}
	if b, berr := url.Parse(base); err == nil && berr == nil && len(b.Scheme) > 1 && b.Scheme != "data" {
		return b.ResolveReference(r).String()
	}
	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}
	if filepath.IsAbs(ref) || strings.HasPrefix(base, "data:") {
		return ref
	}
	return filepath.Join(filepath.Dir(base), ref)
}

func collectViews(doc *document) []*buffer.BufferView {
	views := make([]*buffer.BufferView, 0, len(doc.views)+len(doc.accessors))
	for _, v := range doc.views {
		views = append(views, v)
	}
	for key, a := range doc.accessors {
		if doc.gltf.Accessors[key.index].BufferView == nil {
			views = append(views, a.View())
		}
	}
	return views
}

func collectMaterials(mats *materialSet) []material.Material {
	out := make([]material.Material, 0, len(mats.materials)+1)
	for _, mat := range mats.materials {
		out = append(out, mat)
	}
	if mats.fallback != nil {
		out = append(out, mats.fallback)
	}
	return out
}

func collectTextures(mats *materialSet) []*texture.Texture {
	out := make([]*texture.Texture, 0, len(mats.textures))
	for _, tex := range mats.textures {
		out = append(out, tex)
	}
	return out
}

// node is one glTF node; mesh is -1 for transform-only nodes.
type node struct {
	name     string
	mesh     int
	children []int
	local    mgl32.Mat4
}

// Model is an imported glTF document: its GPU resources and its default scene's node hierarchy.
type Model struct {
	name  string
	nodes []node
	roots []int

	meshes    []*mesh.Mesh
	materials []material.Material
	textures  []*texture.Texture
	views     []*buffer.BufferView
}

// Name returns the uri the model was loaded from.
func (m *Model) Name() string {
	return m.name
}

// Meshes returns the model's meshes in document order.
func (m *Model) Meshes() []*mesh.Mesh {
	out := make([]*mesh.Mesh, len(m.meshes))
	copy(out, m.meshes)
	return out
}

// Textures returns the number of textures the model uploaded.
func (m *Model) Textures() int {
	return len(m.textures)
}

// Instantiate adds the default scene's hierarchy to g under a new group node named after the model.
// Nodes that reference a mesh become mesh nodes sharing the model's mesh; the rest become groups.
// Each call creates a new set of nodes over the same GPU resources.
//
// Parameters:
//   - g: the graph to add nodes to
//
// Returns:
//   - scene.NodeID: the group holding the scene roots, not attached to any parent
//   - error: error if the hierarchy contains a cycle
func (m *Model) Instantiate(g scene.Graph) (scene.NodeID, error) {
	root := g.NewGroup()
	g.SetName(root, m.name)
	visited := make([]bool, len(m.nodes))

	var walk func(i int, parent scene.NodeID) error
	walk = func(i int, parent scene.NodeID) error {
		if visited[i] {
			return fmt.Errorf("node %d is reachable twice", i)
		}
		visited[i] = true

		n := m.nodes[i]
		var id scene.NodeID
		if n.mesh >= 0 {
			id = g.NewMesh(m.meshes[n.mesh])
		} else {
			id = g.NewGroup()
		}
		g.SetName(id, n.name)
		g.SetLocalTransform(id, n.local)
		if err := g.AddChild(parent, id); err != nil {
			return err
		}
		for _, c := range n.children {
			if err := walk(c, id); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range m.roots {
		if err := walk(r, root); err != nil {
			return root, fmt.Errorf("failed to instantiate %q: %w", m.name, err)
		}
	}
	return root, nil
}

// Release deletes the model's vertex arrays, buffers, programs and textures.
// Nodes created by Instantiate must no longer be drawn.
func (m *Model) Release(dev device.Device) {
	for _, me := range m.meshes {
		if me != nil {
			me.Release(dev)
		}
	}
	for _, v := range m.views {
		v.Release(dev)
	}
	for _, mat := range m.materials {
		mat.Release(dev)
	}
	for _, tex := range m.textures {
		tex.Release(dev)
	}
}
