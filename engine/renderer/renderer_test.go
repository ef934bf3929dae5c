package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/geometry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/rendertarget"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shadow"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dev    *devicetest.FakeDevice
	graph  scene.Graph
	root   scene.NodeID
	camera scene.NodeID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := scene.NewGraph()
	f := &fixture{
		dev:    devicetest.NewFakeDevice(),
		graph:  g,
		root:   g.NewGroup(),
		camera: g.NewCamera(camera.NewPerspective(camera.DefaultPerspective())),
	}
	g.SetPosition(f.camera, mgl32.Vec3{0, 1, 5})
	return f
}

func (f *fixture) addMesh(t *testing.T, mat material.Material, mode device.DrawMode) scene.NodeID {
	t.Helper()
	geom, err := geometry.FromFloat32(map[string][]float32{
		geometry.AttributePosition: {0, 0, 0, 1, 0, 0, 0, 1, 0},
		geometry.AttributeNormal:   {0, 0, 1, 0, 0, 1, 0, 0, 1},
	}, nil, geometry.AttributePosition, geometry.AttributeNormal)
	require.NoError(t, err)
	p, err := mesh.NewPrimitive(f.dev, geom, nil, mat, mode)
	require.NoError(t, err)
	id := f.graph.NewMesh(mesh.New(p))
	require.NoError(t, f.graph.AddChild(f.root, id))
	return id
}

func (f *fixture) addLight(t *testing.T, l light.Light) scene.NodeID {
	t.Helper()
	id := f.graph.NewLight(l)
	require.NoError(t, f.graph.AddChild(f.root, id))
	f.graph.PushLight(id)
	return id
}

func (f *fixture) lambert(t *testing.T) material.Material {
	t.Helper()
	m, err := material.NewLambert(f.dev, material.DefaultLitProperties())
	require.NoError(t, err)
	return m
}

func TestNewAppliesGlobalState(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	r := New(dev)
	assert.True(t, dev.Enabled[device.CapabilityDepthTest])
	assert.True(t, dev.Enabled[device.CapabilityProgramPointSize])
	assert.True(t, dev.Enabled[device.CapabilityBlend])
	assert.Equal(t, [2]device.BlendFactor{device.BlendSrcAlpha, device.BlendOneMinusSrcAlpha}, dev.Blend)
	assert.Equal(t, common.Gray, r.ClearColor())
	assert.Equal(t, 4, r.LightCount())
	assert.Nil(t, r.Shadow())

	dev = devicetest.NewFakeDevice()
	New(dev, WithBlending(false), WithLightCount(2))
	assert.False(t, dev.Enabled[device.CapabilityBlend])
	assert.Zero(t, dev.Calls("BlendFunc"))
}

func TestRenderMainPass(t *testing.T) {
	f := newFixture(t)
	mat := f.lambert(t)
	f.addMesh(t, mat, device.DrawModeTriangles)
	f.addLight(t, light.NewDirectional(common.White, mgl32.Vec3{0, -1, 0}))
	r := New(f.dev)
	f.dev.Reset()

	require.NoError(t, r.Render(f.graph, f.root, f.camera, nil))

	require.Len(t, f.dev.Clears, 1)
	assert.Equal(t, device.ClearAll, f.dev.Clears[0].Mask)
	assert.Equal(t, [4]float32{0.5, 0.5, 0.5, 1}, f.dev.Clears[0].Color)
	assert.Equal(t, device.DefaultFramebuffer, f.dev.Clears[0].Framebuffer)
	assert.Equal(t, [][4]int32{{0, 0, 800, 600}}, f.dev.Viewports)

	cam, _ := f.graph.Camera(f.camera)
	assert.InDelta(t, 800.0/600.0, cam.AspectRatio(), 1e-6)

	require.Len(t, f.dev.Draws, 1)
	prog := mat.Program().Handle()
	assert.Equal(t, prog, f.dev.Draws[0].Program)

	v, ok := f.dev.LastUpload(prog, "light0.lightType")
	require.True(t, ok)
	assert.Equal(t, int32(light.LightTypeDirectional), v)
	v, _ = f.dev.LastUpload(prog, "light0.direction")
	dir := v.([3]float32)
	assert.InDelta(t, -1, dir[1], 1e-5)

	for _, slot := range []string{"light1", "light2", "light3"} {
		v, ok = f.dev.LastUpload(prog, slot+".lightType")
		require.True(t, ok, slot)
		assert.Equal(t, int32(light.LightTypeNone), v)
		_, ok = f.dev.LastUpload(prog, slot+".color")
		assert.False(t, ok, slot)
	}

	// Lambert shading has no specular term, so the camera position is never declared.
	_, ok = f.dev.LastUpload(prog, material.UniformViewPosition)
	assert.False(t, ok)
	_, ok = f.dev.LastUpload(prog, "shadow0.strength")
	assert.False(t, ok)
}

func TestRenderUploadsViewPosition(t *testing.T) {
	f := newFixture(t)
	phong, err := material.NewPhong(f.dev, material.DefaultLitProperties())
	require.NoError(t, err)
	f.addMesh(t, phong, device.DrawModeTriangles)
	r := New(f.dev)
	f.dev.Reset()

	require.NoError(t, r.Render(f.graph, f.root, f.camera, nil))

	v, ok := f.dev.LastUpload(phong.Program().Handle(), material.UniformViewPosition)
	require.True(t, ok)
	assert.Equal(t, [3]float32{0, 1, 5}, v)
}

func TestRenderTruncatesLightsInTraversalOrder(t *testing.T) {
	f := newFixture(t)
	mat := f.lambert(t)
	f.addMesh(t, mat, device.DrawModeTriangles)
	for i := 0; i < 5; i++ {
		f.addLight(t, light.NewPoint(common.White, mgl32.Vec3{float32(i), 0, 0}))
	}
	r := New(f.dev)
	f.dev.Reset()

	require.NoError(t, r.Render(f.graph, f.root, f.camera, nil))

	prog := mat.Program().Handle()
	v, ok := f.dev.LastUpload(prog, "light3.position")
	require.True(t, ok)
	assert.Equal(t, [3]float32{3, 0, 0}, v)
	for _, name := range f.dev.UploadedNames(prog) {
		assert.NotContains(t, name, "light4")
	}
}

func TestRenderSkipsLightSlotsForUnlitMaterials(t *testing.T) {
	f := newFixture(t)
	basic, err := material.NewSurface(f.dev, material.DefaultSurfaceProperties())
	require.NoError(t, err)
	f.addMesh(t, basic, device.DrawModeTriangles)
	f.addLight(t, light.NewDirectional(common.White, mgl32.Vec3{0, -1, 0}))
	r := New(f.dev)
	f.dev.Reset()

	require.NoError(t, r.Render(f.graph, f.root, f.camera, nil))

	require.Len(t, f.dev.Draws, 1)
	for _, name := range f.dev.UploadedNames(basic.Program().Handle()) {
		assert.NotContains(t, name, "light")
	}
}

func TestRenderShadowPass(t *testing.T) {
	f := newFixture(t)
	mat := f.lambert(t)
	f.addMesh(t, mat, device.DrawModeTriangles)
	f.addMesh(t, mat, device.DrawModePoints)
	sun := f.addLight(t, light.NewDirectional(common.White, mgl32.Vec3{0, -1, 0}))

	s, err := shadow.Initialize(f.dev, f.graph, sun, rendertarget.Resolution{Width: 512, Height: 512})
	require.NoError(t, err)
	r := New(f.dev, WithShadow(s))
	f.dev.Reset()

	require.NoError(t, r.Render(f.graph, f.root, f.camera, nil))

	shadowFB := s.Target().Framebuffer()
	require.Len(t, f.dev.Clears, 2)
	assert.Equal(t, devicetest.ClearCall{Mask: device.ClearAll, Color: [4]float32{1, 0, 0, 1}, Framebuffer: shadowFB}, f.dev.Clears[0])
	assert.Equal(t, device.DefaultFramebuffer, f.dev.Clears[1].Framebuffer)
	assert.Equal(t, [][4]int32{{0, 0, 512, 512}, {0, 0, 800, 600}}, f.dev.Viewports)

	// The point primitive is skipped by the depth pass and drawn by the main pass.
	require.Len(t, f.dev.Draws, 3)
	depth := s.Material().Program().Handle()
	assert.Equal(t, depth, f.dev.Draws[0].Program)
	assert.Equal(t, shadowFB, f.dev.Draws[0].Framebuffer)
	assert.Equal(t, mat.Program().Handle(), f.dev.Draws[1].Program)
	assert.Equal(t, device.DefaultFramebuffer, f.dev.Draws[1].Framebuffer)

	prog := mat.Program().Handle()
	v, ok := f.dev.LastUpload(prog, "shadow0.strength")
	require.True(t, ok)
	assert.Equal(t, light.DefaultShadowStrength, v)
	v, _ = f.dev.LastUpload(prog, "shadow0.depthTexture")
	assert.Equal(t, int32(shadow.DefaultTextureUnit), v)
	assert.Equal(t, s.Target().Texture().Handle(), f.dev.BoundTexture(shadow.DefaultTextureUnit))

	r.SetShadow(nil)
	f.dev.Reset()
	require.NoError(t, r.Render(f.graph, f.root, f.camera, nil))
	assert.Len(t, f.dev.Clears, 1)
}

func TestRenderIntoTarget(t *testing.T) {
	f := newFixture(t)
	f.addMesh(t, f.lambert(t), device.DrawModeTriangles)
	target, err := rendertarget.New(f.dev, rendertarget.Resolution{Width: 256, Height: 128})
	require.NoError(t, err)
	r := New(f.dev, WithClearColor(common.Black), WithClearMask(device.ClearColor))
	f.dev.Reset()

	require.NoError(t, r.Render(f.graph, f.root, f.camera, target))

	assert.Zero(t, f.dev.Calls("DrawingBufferSize"))
	assert.Equal(t, [][4]int32{{0, 0, 256, 128}}, f.dev.Viewports)
	require.Len(t, f.dev.Clears, 1)
	assert.Equal(t, device.ClearColor, f.dev.Clears[0].Mask)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, f.dev.Clears[0].Color)
	require.Len(t, f.dev.Draws, 1)
	assert.Equal(t, target.Framebuffer(), f.dev.Draws[0].Framebuffer)

	cam, _ := f.graph.Camera(f.camera)
	assert.Equal(t, float32(2), cam.AspectRatio())
}

func TestRenderRequiresCamera(t *testing.T) {
	f := newFixture(t)
	f.addMesh(t, f.lambert(t), device.DrawModeTriangles)
	r := New(f.dev)
	f.dev.Reset()

	err := r.Render(f.graph, f.root, f.root, nil)
	require.ErrorIs(t, err, ErrNoCamera)
	assert.Empty(t, f.dev.Draws)
	assert.Empty(t, f.dev.Clears)
}

func TestGlobalUniformUpdaterRunsPerDraw(t *testing.T) {
	f := newFixture(t)
	mat := f.lambert(t)
	f.addMesh(t, mat, device.DrawModeTriangles)
	f.addMesh(t, mat, device.DrawModeTriangles)

	calls := 0
	r := New(f.dev, WithGlobalUniformUpdater(material.UniformUpdaterFunc(func(dev device.Device, p *material.Program) {
		calls++
		p.UpdateUniform(dev, material.UniformUseShadow, material.Bool(false), material.LevelIgnore)
	})))
	require.NoError(t, r.Render(f.graph, f.root, f.camera, nil))
	assert.Equal(t, 2, calls)

	r.SetGlobalUniformUpdater(nil)
	require.NoError(t, r.Render(f.graph, f.root, f.camera, nil))
	assert.Equal(t, 2, calls)
}

func TestLightsForEachIndexed(t *testing.T) {
	g := scene.NewGraph()
	root := g.NewGroup()
	sun := g.NewLight(light.NewDirectional(common.White, mgl32.Vec3{0, -1, 0}))
	lamp := g.NewLight(light.NewPoint(common.Red, mgl32.Vec3{1, 2, 3}))
	require.NoError(t, g.AddChild(root, sun))
	require.NoError(t, g.AddChild(root, lamp))

	lights := CollectLights(g, root)
	assert.Equal(t, []scene.NodeID{sun, lamp}, lights.Nodes())

	var types []light.LightType
	lights.ForEachIndexed(4, func(i int, l light.Light) {
		types = append(types, l.Type())
	})
	assert.Equal(t, []light.LightType{light.LightTypeDirectional, light.LightTypePoint, light.LightTypeNone, light.LightTypeNone}, types)

	types = nil
	lights.ForEachIndexed(1, func(i int, l light.Light) {
		types = append(types, l.Type())
	})
	assert.Equal(t, []light.LightType{light.LightTypeDirectional}, types)

	g.SetPosition(lamp, mgl32.Vec3{4, 5, 6})
	lights.Update()
	l, _ := g.Light(lamp)
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, l.Position())
}
