package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/asset"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
)

// materialSet builds glTF materials on demand, sharing textures between them.
type materialSet struct {
	doc      *document
	images   []asset.Image
	settings settings

	textures  map[int]*texture.Texture
	materials map[int]material.Material
	fallback  material.Material
}

func newMaterialSet(doc *document, images []asset.Image, s settings) *materialSet {
	return &materialSet{
		doc:       doc,
		images:    images,
		settings:  s,
		textures:  make(map[int]*texture.Texture),
		materials: make(map[int]material.Material),
	}
}

// get returns the material at index, or the glTF default material for nil.
func (m *materialSet) get(index *int) (material.Material, error) {
	if index == nil {
		if m.fallback == nil {
			mat, err := m.build(gltfMaterial{})
			if err != nil {
				return nil, fmt.Errorf("default material: %w", err)
			}
			m.fallback = mat
		}
		return m.fallback, nil
	}
	if mat, ok := m.materials[*index]; ok {
		return mat, nil
	}
	if *index < 0 || *index >= len(m.doc.gltf.Materials) {
		return nil, fmt.Errorf("material %d out of range", *index)
	}
	mat, err := m.build(m.doc.gltf.Materials[*index])
	if err != nil {
		return nil, fmt.Errorf("material %d: %w", *index, err)
	}
	m.materials[*index] = mat
	return mat, nil
}

func (m *materialSet) build(gm gltfMaterial) (material.Material, error) {
	base := common.White
	var sampler *material.Sampler2D
	if pbr := gm.PbrMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			base = common.Color{R: f[0], G: f[1], B: f[2], A: f[3]}
		}
		if info := pbr.BaseColorTexture; info != nil {
			tex, err := m.texture(info.Index)
			if err != nil {
				return nil, err
			}
			sampler = &material.Sampler2D{Texture: tex, Unit: m.settings.textureUnit}
		}
	}

	_, unlit := gm.Extensions[extensionUnlit]
	if unlit || !m.settings.lit {
		if sampler != nil {
			props := material.DefaultTextureProperties()
			props.BaseColor = base
			props.DoubleSided = gm.DoubleSided
			return material.NewTextureMaterial(m.doc.dev, *sampler, props)
		}
		props := material.DefaultSurfaceProperties()
		props.Basic.BaseColor = base
		props.DoubleSided = gm.DoubleSided
		return material.NewSurface(m.doc.dev, props)
	}

	props := material.DefaultLitProperties()
	props.DoubleSided = gm.DoubleSided
	props.Ambient = m.settings.ambient
	props.Diffuse = base
	props.Texture = sampler
	props.UseShadow = m.settings.shadows
	return material.NewLambert(m.doc.dev, props)
}

// texture uploads the image behind glTF texture index with its sampler.
// glTF places the UV origin at the top left, matching row order of the decoded image.
func (m *materialSet) texture(index int) (*texture.Texture, error) {
	if tex, ok := m.textures[index]; ok {
		return tex, nil
	}
	if index < 0 || index >= len(m.doc.gltf.Textures) {
		return nil, fmt.Errorf("texture %d out of range", index)
	}
	gt := m.doc.gltf.Textures[index]
	if gt.Source == nil || *gt.Source < 0 || *gt.Source >= len(m.images) {
		return nil, fmt.Errorf("texture %d has no usable image source", index)
	}

	s := texture.DefaultSampler
	if gt.Sampler != nil {
		if *gt.Sampler < 0 || *gt.Sampler >= len(m.doc.gltf.Samplers) {
			return nil, fmt.Errorf("texture %d: sampler %d out of range", index, *gt.Sampler)
		}
		gs := m.doc.gltf.Samplers[*gt.Sampler]
		s.MagFilter = common.ValueOr(gs.MagFilter, s.MagFilter)
		s.MinFilter = common.ValueOr(gs.MinFilter, s.MinFilter)
		s.WrapS = common.ValueOr(gs.WrapS, s.WrapS)
		s.WrapT = common.ValueOr(gs.WrapT, s.WrapT)
	}

	tex, err := texture.New(m.doc.dev, m.images[*gt.Source].Image, texture.WithSampler(s))
	if err != nil {
		return nil, fmt.Errorf("texture %d: %w", index, err)
	}
	m.textures[index] = tex
	return tex, nil
}
