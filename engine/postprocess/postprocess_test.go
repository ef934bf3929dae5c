package postprocess

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/geometry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/rendertarget"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type baseScene struct {
	graph  scene.Graph
	root   scene.NodeID
	camera scene.NodeID
	mat    material.Material
}

func newBaseScene(t *testing.T, dev device.Device) *baseScene {
	t.Helper()
	g := scene.NewGraph()
	mat, err := material.NewSurface(dev, material.DefaultSurfaceProperties())
	require.NoError(t, err)
	geom, err := geometry.FromFloat32(map[string][]float32{
		geometry.AttributePosition: {0, 0, 0, 1, 0, 0, 0, 1, 0},
	}, nil, geometry.AttributePosition)
	require.NoError(t, err)
	prim, err := mesh.NewPrimitive(dev, geom, nil, mat, device.DrawModeTriangles)
	require.NoError(t, err)

	s := &baseScene{graph: g, root: g.NewGroup(), mat: mat}
	meshNode := g.NewMesh(mesh.New(prim))
	require.NoError(t, g.AddChild(s.root, meshNode))
	s.camera = g.NewCamera(camera.NewPerspective(camera.DefaultPerspective()))
	g.SetPosition(s.camera, mgl32.Vec3{0, 0, 4})
	return s
}

func TestChainWithoutEffectsRendersToFinalDestination(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	base := newBaseScene(t, dev)
	p, err := Initialize(dev, renderer.New(dev), base.graph, base.root, base.camera, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, p.Passes())
	assert.Equal(t, rendertarget.Resolution{Width: 800, Height: 600}, p.Resolution())
	_, ok := p.Texture(0)
	assert.False(t, ok)

	dev.Reset()
	require.NoError(t, p.Render())
	require.Len(t, dev.Draws, 1)
	assert.Equal(t, device.DefaultFramebuffer, dev.Draws[0].Framebuffer)
	assert.Equal(t, base.mat.Program().Handle(), dev.Draws[0].Program)
}

func TestAddEffectInsertsIntermediateTarget(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	base := newBaseScene(t, dev)
	p, err := Initialize(dev, renderer.New(dev), base.graph, base.root, base.camera, nil)
	require.NoError(t, err)

	var sampled material.Sampler2D
	var tint material.Material
	require.NoError(t, p.AddEffect(func(sampler material.Sampler2D) (material.Material, error) {
		sampled = sampler
		m, err := Tint(dev, common.Red)(sampler)
		tint = m
		return m, err
	}))

	assert.Equal(t, 2, p.Passes())
	intermediate, ok := p.Texture(0)
	require.True(t, ok)
	assert.Same(t, intermediate, sampled.Texture)
	assert.Equal(t, DefaultTextureUnit, sampled.Unit)
	_, ok = p.Texture(1)
	assert.False(t, ok)

	dev.Reset()
	require.NoError(t, p.Render())
	require.Len(t, dev.Draws, 2)
	assert.Equal(t, p.Target(0).Framebuffer(), dev.Draws[0].Framebuffer)
	assert.Equal(t, base.mat.Program().Handle(), dev.Draws[0].Program)
	assert.Equal(t, device.DefaultFramebuffer, dev.Draws[1].Framebuffer)
	assert.Equal(t, tint.Program().Handle(), dev.Draws[1].Program)
	assert.Equal(t, intermediate.Handle(), dev.BoundTexture(DefaultTextureUnit))

	v, ok := dev.LastUpload(tint.Program().Handle(), "tintColor")
	require.True(t, ok)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, v)
}

func TestFinalTargetStaysLast(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	base := newBaseScene(t, dev)
	final, err := rendertarget.New(dev, rendertarget.Resolution{Width: 320, Height: 240})
	require.NoError(t, err)
	p, err := Initialize(dev, renderer.New(dev), base.graph, base.root, base.camera, final)
	require.NoError(t, err)
	assert.Equal(t, final.Resolution(), p.Resolution())

	require.NoError(t, p.AddEffect(Invert(dev)))
	require.NoError(t, p.AddEffect(ColorReduce(dev, 4)))

	assert.Equal(t, 3, p.Passes())
	assert.Same(t, final, p.Target(2))
	first, _ := p.Texture(0)
	second, _ := p.Texture(1)
	assert.NotEqual(t, first.Handle(), second.Handle())
	assert.Equal(t, final.Resolution(), p.Target(1).Resolution())

	dev.Reset()
	require.NoError(t, p.Render())
	require.Len(t, dev.Draws, 3)
	assert.Equal(t, final.Framebuffer(), dev.Draws[2].Framebuffer)
	assert.Equal(t, [][4]int32{{0, 0, 320, 240}, {0, 0, 320, 240}, {0, 0, 320, 240}}, dev.Viewports)

	p.Release()
	assert.Equal(t, 2, dev.Calls("DeleteFramebuffer"))
}

func TestAddEffectFailureLeavesChainUnchanged(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	base := newBaseScene(t, dev)
	p, err := Initialize(dev, renderer.New(dev), base.graph, base.root, base.camera, nil,
		WithResolution(rendertarget.Resolution{Width: 64, Height: 64}))
	require.NoError(t, err)
	dev.Reset()

	boom := errors.New("boom")
	err = p.AddEffect(func(material.Sampler2D) (material.Material, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, p.Passes())
	assert.Equal(t, 1, dev.Calls("DeleteFramebuffer"))
	assert.Equal(t, 1, dev.Calls("DeleteTexture"))
}

func TestAddEffectQuadFailureReleasesResources(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	base := newBaseScene(t, dev)
	p, err := Initialize(dev, renderer.New(dev), base.graph, base.root, base.camera, nil,
		WithResolution(rendertarget.Resolution{Width: 64, Height: 64}))
	require.NoError(t, err)
	nodes := p.effects.graph.Len()
	programs := dev.LivePrograms()

	dev.FailCreate("CreateVertexArray", errors.New("out of names"))
	dev.Reset()
	err = p.AddEffect(Invert(dev))
	require.ErrorIs(t, err, errs.ErrResourceCreation)

	assert.Equal(t, 1, p.Passes())
	assert.Equal(t, nodes, p.effects.graph.Len())
	assert.Equal(t, programs, dev.LivePrograms())
	assert.Equal(t, 1, dev.Calls("DeleteFramebuffer"))
	assert.Equal(t, 1, dev.Calls("DeleteTexture"))
}

func TestEffectPassRootIsTheQuad(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	base := newBaseScene(t, dev)
	p, err := Initialize(dev, renderer.New(dev), base.graph, base.root, base.camera, nil)
	require.NoError(t, err)
	require.NoError(t, p.AddEffect(Invert(dev)))

	root := p.passes[1].root
	_, ok := p.effects.graph.Mesh(root)
	assert.True(t, ok)
	assert.Equal(t, "effect pass 1", p.effects.graph.Name(root))
}

func TestRenderPropagatesRendererErrors(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	base := newBaseScene(t, dev)
	p, err := Initialize(dev, renderer.New(dev), base.graph, base.root, base.root, nil)
	require.NoError(t, err)
	require.ErrorIs(t, p.Render(), renderer.ErrNoCamera)
}

func TestEffectLibraryUniforms(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	res := rendertarget.Resolution{Width: 640, Height: 480}
	blend := material.Sampler2D{Unit: 1}

	tests := []struct {
		name    string
		factory Factory
		uniform string
		want    material.Value
	}{
		{name: "tint", factory: Tint(dev, common.Blue), uniform: "tintColor", want: material.Color(common.Blue)},
		{name: "pixelate", factory: Pixelate(dev, 8, res), uniform: "resolution", want: material.Vec2(mgl32.Vec2{640, 480})},
		{name: "vignette", factory: Vignette(dev, 0.4, 1, common.Black), uniform: "dimEnd", want: material.Float(1)},
		{name: "color reduce", factory: ColorReduce(dev, 6), uniform: "levels", want: material.Float(6)},
		{name: "bright filter", factory: BrightFilter(dev, DefaultBrightFilterProperties()), uniform: "threshold", want: material.Float(2.4)},
		{name: "horizontal blur", factory: HorizontalBlur(dev, DefaultBlurProperties()), uniform: "blurRadius", want: material.Int(20)},
		{name: "vertical blur", factory: VerticalBlur(dev, DefaultBlurProperties()), uniform: "textureSize", want: material.Vec2(mgl32.Vec2{512, 512})},
		{name: "additive blend", factory: AdditiveBlend(dev, blend, DefaultBlendProperties()), uniform: "blendTexture", want: blend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.factory(material.Sampler2D{Unit: 0})
			require.NoError(t, err)
			assert.Equal(t, material.KindEffect, m.Kind())
			assert.True(t, m.HasUniform(tt.uniform))
			got, ok := m.Uniform(tt.uniform)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	m, err := Invert(dev)(material.Sampler2D{})
	require.NoError(t, err)
	assert.True(t, m.HasUniform("texture0"))
}
