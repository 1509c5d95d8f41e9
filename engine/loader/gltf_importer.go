package loader

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct {
	policy model.LoopPolicy
}

// gltfImporter defines the interface for orchestrating a full glTF/GLB import.
// It combines the parser and the skeleton and animation extractors to produce a Model.
type gltfImporter interface {
	// Import loads a glTF/GLB file and extracts its skeleton and animations.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - model.Model: the imported model
	//   - error: error if import fails
	Import(path string) (model.Model, error)

	// ImportReader loads a glTF JSON or GLB document from a reader.
	//
	// Parameters:
	//   - r: the reader providing glTF/GLB data
	//   - baseDir: the directory external buffer URIs resolve against
	//   - fallbackName: the model name when the default scene has none
	//
	// Returns:
	//   - model.Model: the imported model
	//   - error: error if import fails
	ImportReader(r io.Reader, baseDir, fallbackName string) (model.Model, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Parameters:
//   - policy: the loop policy assigned to every imported clip; glTF carries none
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter(policy model.LoopPolicy) gltfImporter {
	return &gltfImporterImpl{policy: policy}
}

func (imp *gltfImporterImpl) Import(path string) (model.Model, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return imp.importFromParser(parser, assetName(path))
}

func (imp *gltfImporterImpl) ImportReader(r io.Reader, baseDir, fallbackName string) (model.Model, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, baseDir); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return imp.importFromParser(parser, fallbackName)
}

// importFromParser performs a full import from a parser that has already loaded a document.
//
// With a skin, the skin's joints form the skeleton and rest transforms come from its bind pose.
// Without one, every node becomes an addressable joint so node animations still import as
// skeleton-less joint clips.
//
// Parameters:
//   - parser: the glTF parser that has already loaded a document
//   - fallbackName: the model name used when the default scene is unnamed
func (imp *gltfImporterImpl) importFromParser(parser gltfParser, fallbackName string) (model.Model, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document after parsing")
	}

	skeletonExtractor := newGLTFSkeletonExtractor(parser)
	animationExtractor := newGLTFAnimationExtractor(parser)

	var skeleton *model.Skeleton
	var nodeToJoint map[int]model.JointID
	rest := make(map[model.JointID]model.Transform)

	if skinIndex := skeletonExtractor.FindSkin(); skinIndex >= 0 {
		var err error
		skeleton, nodeToJoint, err = skeletonExtractor.ExtractSkeleton(skinIndex)
		if err != nil {
			return nil, fmt.Errorf("skeleton extraction failed: %w", err)
		}
		for _, id := range skeleton.JointIDs() {
			rest[id], _ = skeleton.BindPose(id)
		}
	} else {
		nodeToJoint = make(map[int]model.JointID, len(doc.Nodes))
		used := make(map[model.JointID]bool, len(doc.Nodes))
		for i := range doc.Nodes {
			id := model.JointID(doc.Nodes[i].Name)
			if id == "" || used[id] {
				id = model.JointID(fmt.Sprintf("joint_%d", i))
			}
			used[id] = true
			nodeToJoint[i] = id
			rest[id] = gltfNodeTransform(&doc.Nodes[i])
		}
	}

	clips, err := animationExtractor.ExtractAllClips(nodeToJoint, rest, imp.policy)
	if err != nil {
		return nil, fmt.Errorf("animation extraction failed: %w", err)
	}

	return model.NewModel(
		model.WithName(gltfExtractModelName(doc, fallbackName)),
		model.WithSkeleton(skeleton),
		model.WithClips(clips...),
	), nil
}

// gltfExtractModelName derives a model name from the default scene or a fallback.
func gltfExtractModelName(doc *gltfDocument, fallback string) string {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		if name := doc.Scenes[*doc.Scene].Name; name != "" {
			return name
		}
	}
	if fallback != "" {
		return fallback
	}
	return "unnamed_model"
}
