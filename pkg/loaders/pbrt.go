package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ekarpp/spuristo/pkg/core"
)

// PBRTStatement is one directive from a .pbrt file, e.g. `Shape "sphere"
// "float radius" [1.0]` decodes to Type="Shape", Subtype="sphere", with a
// "radius" entry in Parameters.
type PBRTStatement struct {
	Type          string
	Subtype       string
	Parameters    map[string]PBRTParam
	MaterialIndex int // index into PBRTScene.Materials this shape uses, -1 if none
}

// PBRTParam is one named parameter of a PBRTStatement, still in its
// unconverted string form — GetFloatParam/GetRGBParam/etc. parse it lazily.
type PBRTParam struct {
	Type   string
	Values []string
}

// PBRTScene is the full result of parsing a .pbrt file: everything declared
// before WorldBegin, plus every world-level statement, flattened out of
// whatever AttributeBegin/AttributeEnd nesting the source file used.
type PBRTScene struct {
	Camera     *PBRTStatement
	LookAt     *core.Vec3
	LookAtTo   *core.Vec3
	LookAtUp   *core.Vec3
	Film       *PBRTStatement
	Sampler    *PBRTStatement
	Integrator *PBRTStatement

	Materials    []PBRTStatement
	Shapes       []PBRTStatement
	LightSources []PBRTStatement
	Transforms   []PBRTStatement
	Attributes   []AttributeBlock
}

// AttributeBlock is the statements collected inside one AttributeBegin /
// AttributeEnd pair.
type AttributeBlock struct {
	Materials    []PBRTStatement
	Shapes       []PBRTStatement
	LightSources []PBRTStatement
	Transforms   []PBRTStatement
}

// GraphicsState is the portion of PBRT's graphics state this parser tracks
// across AttributeBegin/AttributeEnd — just enough to assign materials and
// propagate an active area light down to the shapes that follow it.
type GraphicsState struct {
	MaterialIndex   int
	AreaLightSource *PBRTStatement
}

// PBRTParser holds the running state of a single-pass PBRT parse: the
// scene built so far, the attribute/state stacks for nested blocks, and
// whatever lines of the current (possibly multi-line) statement have been
// accumulated.
type PBRTParser struct {
	scene                *PBRTScene
	attributeStack       []*AttributeBlock
	stateStack           []GraphicsState
	currentMaterialIndex int
	inWorld              bool
	statementLines       []string
}

// ParsePBRT parses PBRT content from reader into a PBRTScene.
func ParsePBRT(reader io.Reader) (*PBRTScene, error) {
	parser := NewPBRTParser()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		if err := parser.processLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %v", err)
	}
	if err := parser.finalize(); err != nil {
		return nil, err
	}

	return parser.scene, nil
}

// LoadPBRT opens and parses a .pbrt scene file, restricted to the scenes/
// directory (or the OS temp directory, for tests).
func LoadPBRT(filename string) (*PBRTScene, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PBRT file: %v", err)
	}
	defer file.Close()

	return ParsePBRT(file)
}

// NewPBRTParser returns a parser ready to consume a PBRT file from its
// first line.
func NewPBRTParser() *PBRTParser {
	return &PBRTParser{
		scene: &PBRTScene{
			Materials:    make([]PBRTStatement, 0),
			Shapes:       make([]PBRTStatement, 0),
			LightSources: make([]PBRTStatement, 0),
			Transforms:   make([]PBRTStatement, 0),
			Attributes:   make([]AttributeBlock, 0),
		},
		attributeStack:       make([]*AttributeBlock, 0),
		stateStack:           make([]GraphicsState, 0),
		currentMaterialIndex: -1,
	}
}

func (p *PBRTParser) currentAttribute() *AttributeBlock {
	if len(p.attributeStack) == 0 {
		return nil
	}
	return p.attributeStack[len(p.attributeStack)-1]
}

func (p *PBRTParser) activeAreaLight() *PBRTStatement {
	if len(p.stateStack) == 0 {
		return nil
	}
	return p.stateStack[len(p.stateStack)-1].AreaLightSource
}

// flushStatement parses whatever lines have accumulated into one statement
// and routes it, clearing the buffer. Called both mid-stream, whenever a
// directive that isn't itself a statement (WorldBegin, AttributeEnd, ...)
// is seen, and once at end of file.
func (p *PBRTParser) flushStatement(context string) error {
	if len(p.statementLines) == 0 {
		return nil
	}
	joined := strings.Join(p.statementLines, " ")
	stmt, err := parseStatement(joined)
	if err != nil {
		return fmt.Errorf("error parsing statement %s '%s': %v", context, joined, err)
	}
	if err := p.routeStatement(stmt); err != nil {
		return err
	}
	p.statementLines = nil
	return nil
}

func (p *PBRTParser) processWorldBegin() error {
	if err := p.flushStatement("before WorldBegin"); err != nil {
		return err
	}
	p.inWorld = true
	return nil
}

func (p *PBRTParser) processWorldEnd() error {
	if err := p.flushStatement("before WorldEnd"); err != nil {
		return err
	}
	p.inWorld = false
	return nil
}

// processAttributeBegin pushes a fresh GraphicsState (inheriting any active
// area light from the enclosing block) and a fresh AttributeBlock to
// collect this block's statements into.
func (p *PBRTParser) processAttributeBegin() error {
	if err := p.flushStatement("before AttributeBegin"); err != nil {
		return err
	}

	state := GraphicsState{MaterialIndex: p.currentMaterialIndex}
	if len(p.stateStack) > 0 {
		state.AreaLightSource = p.stateStack[len(p.stateStack)-1].AreaLightSource
	}
	p.stateStack = append(p.stateStack, state)

	p.attributeStack = append(p.attributeStack, &AttributeBlock{
		Materials:    make([]PBRTStatement, 0),
		Shapes:       make([]PBRTStatement, 0),
		LightSources: make([]PBRTStatement, 0),
		Transforms:   make([]PBRTStatement, 0),
	})
	return nil
}

// processAttributeEnd pops the current block onto scene.Attributes and
// restores the graphics state the matching AttributeBegin saved.
func (p *PBRTParser) processAttributeEnd() error {
	if err := p.flushStatement("before AttributeEnd"); err != nil {
		return err
	}

	if len(p.attributeStack) > 0 {
		completed := p.attributeStack[len(p.attributeStack)-1]
		p.scene.Attributes = append(p.scene.Attributes, *completed)
		p.attributeStack = p.attributeStack[:len(p.attributeStack)-1]
	}
	if len(p.stateStack) > 0 {
		restored := p.stateStack[len(p.stateStack)-1]
		p.currentMaterialIndex = restored.MaterialIndex
		p.stateStack = p.stateStack[:len(p.stateStack)-1]
	}
	return nil
}

func (p *PBRTParser) processLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	switch line {
	case "WorldBegin":
		return p.processWorldBegin()
	case "WorldEnd":
		return p.processWorldEnd()
	case "AttributeBegin":
		return p.processAttributeBegin()
	case "AttributeEnd":
		return p.processAttributeEnd()
	}

	if isStatementStart(line) {
		if err := p.flushStatement(""); err != nil {
			return err
		}
		p.statementLines = []string{line}
		return nil
	}

	if len(p.statementLines) == 0 {
		return fmt.Errorf("unexpected continuation line: %s", line)
	}
	p.statementLines = append(p.statementLines, line)
	return nil
}

func (p *PBRTParser) finalize() error {
	return p.flushStatement("at end of file")
}

// applyAreaLight stamps stmt as the emissive shape for an active
// AreaLightSource: a synthetic "_areaLight" marker plus the light's
// emission parameters (L or power), carried over so downstream scene
// construction can build an area light out of the shape directly.
func applyAreaLight(stmt *PBRTStatement, areaLight *PBRTStatement) {
	if areaLight == nil {
		return
	}
	if stmt.Parameters == nil {
		stmt.Parameters = make(map[string]PBRTParam)
	}
	stmt.Parameters["_areaLight"] = PBRTParam{Type: "bool", Values: []string{"true"}}
	for name, param := range areaLight.Parameters {
		if name == "L" || name == "power" {
			stmt.Parameters[name] = param
		}
	}
}

// routeStatement files a parsed statement into the scene (or the current
// attribute block, if one is open), assigning the material and area-light
// state that's in effect at this point in the stream.
func (p *PBRTParser) routeStatement(stmt *PBRTStatement) error {
	if stmt.Type == "LookAt" {
		if err := parseLookAt(stmt, p.scene); err != nil {
			return fmt.Errorf("error parsing LookAt: %v", err)
		}
		return nil
	}

	if attr := p.currentAttribute(); attr != nil {
		switch stmt.Type {
		case "Material":
			attr.Materials = append(attr.Materials, *stmt)
		case "Shape":
			if local := len(attr.Materials) - 1; local >= 0 {
				stmt.MaterialIndex = local
			} else {
				stmt.MaterialIndex = p.currentMaterialIndex
			}
			applyAreaLight(stmt, p.activeAreaLight())
			attr.Shapes = append(attr.Shapes, *stmt)
		case "LightSource":
			attr.LightSources = append(attr.LightSources, *stmt)
		case "AreaLightSource":
			if len(p.stateStack) > 0 {
				p.stateStack[len(p.stateStack)-1].AreaLightSource = stmt
			}
			attr.LightSources = append(attr.LightSources, *stmt)
		case "Translate", "Rotate", "Scale", "Transform":
			attr.Transforms = append(attr.Transforms, *stmt)
		}
		return nil
	}

	if !p.inWorld {
		switch stmt.Type {
		case "Camera":
			p.scene.Camera = stmt
		case "Film":
			p.scene.Film = stmt
		case "Sampler":
			p.scene.Sampler = stmt
		case "Integrator":
			p.scene.Integrator = stmt
		}
		return nil
	}

	switch stmt.Type {
	case "Material":
		p.scene.Materials = append(p.scene.Materials, *stmt)
		p.currentMaterialIndex = len(p.scene.Materials) - 1
	case "Shape":
		stmt.MaterialIndex = p.currentMaterialIndex
		applyAreaLight(stmt, p.activeAreaLight())
		p.scene.Shapes = append(p.scene.Shapes, *stmt)
	case "LightSource":
		p.scene.LightSources = append(p.scene.LightSources, *stmt)
	case "AreaLightSource":
		if len(p.stateStack) > 0 {
			p.stateStack[len(p.stateStack)-1].AreaLightSource = stmt
		}
		p.scene.LightSources = append(p.scene.LightSources, *stmt)
	case "Translate", "Rotate", "Scale", "Transform":
		p.scene.Transforms = append(p.scene.Transforms, *stmt)
	}
	return nil
}

// validateFilePath restricts LoadPBRT to files that live under a scenes/
// directory (or the OS temp dir, so tests can use t.TempDir()), rejecting
// traversal attempts, null bytes, and anything not ending in .pbrt.
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	cleanPath := filepath.Clean(filename)

	if !strings.HasPrefix(cleanPath, "scenes/") &&
		!strings.HasPrefix(cleanPath, os.TempDir()) &&
		!strings.Contains(cleanPath, "scenes/") {
		return fmt.Errorf("file path must be in scenes/ directory")
	}

	if strings.Contains(cleanPath, "..") && !strings.Contains(cleanPath, "scenes/") {
		return fmt.Errorf("invalid file path: directory traversal not allowed")
	}

	if !strings.HasSuffix(strings.ToLower(cleanPath), ".pbrt") {
		return fmt.Errorf("invalid file type: only .pbrt files are allowed")
	}

	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	return nil
}

// parseLookAt decodes `LookAt eyex eyey eyez atx aty atz upx upy upz` into
// the scene's eye/target/up vectors.
func parseLookAt(stmt *PBRTStatement, scene *PBRTScene) error {
	if len(stmt.Parameters) != 1 || len(stmt.Parameters["values"].Values) != 9 {
		return fmt.Errorf("LookAt requires 9 values")
	}
	values := stmt.Parameters["values"].Values

	parseVec3 := func(offset int, label string) (core.Vec3, error) {
		x, err := strconv.ParseFloat(values[offset], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid %s X coordinate '%s': %v", label, values[offset], err)
		}
		y, err := strconv.ParseFloat(values[offset+1], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid %s Y coordinate '%s': %v", label, values[offset+1], err)
		}
		z, err := strconv.ParseFloat(values[offset+2], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid %s Z coordinate '%s': %v", label, values[offset+2], err)
		}
		return core.Vec3{X: x, Y: y, Z: z}, nil
	}

	eye, err := parseVec3(0, "eye")
	if err != nil {
		return err
	}
	at, err := parseVec3(3, "look-at")
	if err != nil {
		return err
	}
	up, err := parseVec3(6, "up")
	if err != nil {
		return err
	}

	scene.LookAt = &eye
	scene.LookAtTo = &at
	scene.LookAtUp = &up
	return nil
}

// tokenizePBRT splits a PBRT line into tokens, treating quoted strings and
// bracketed arrays as single tokens even when they contain spaces.
func tokenizePBRT(line string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false
	inBrackets := false

	for _, char := range line {
		switch char {
		case '"':
			current.WriteRune(char)
			if !inBrackets {
				inQuotes = !inQuotes
				if !inQuotes {
					tokens = append(tokens, current.String())
					current.Reset()
				}
			}
		case '[':
			if inQuotes {
				current.WriteRune(char)
				continue
			}
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			current.WriteRune(char)
			inBrackets = true
		case ']':
			current.WriteRune(char)
			if !inQuotes && inBrackets {
				tokens = append(tokens, current.String())
				current.Reset()
				inBrackets = false
			}
		case ' ', '\t':
			if inQuotes || inBrackets {
				current.WriteRune(char)
			} else if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// pbrtTransformTypes are the directives parseStatement handles as bare
// "Name v1 v2 ..." lines with no quoted subtype or parameters.
var pbrtTransformTypes = []string{"Translate", "Rotate", "Scale", "Transform"}

// parseStatement decodes one (already line-joined) PBRT statement into a
// PBRTStatement. LookAt and the transform directives have a simpler,
// quote-free grammar and are special-cased; everything else follows
// `Type "subtype" "param type" value ...`.
func parseStatement(line string) (*PBRTStatement, error) {
	if strings.HasPrefix(line, "LookAt") {
		return &PBRTStatement{
			Type:       "LookAt",
			Parameters: map[string]PBRTParam{"values": {Type: "float", Values: strings.Fields(line[len("LookAt"):])}},
		}, nil
	}
	for _, transform := range pbrtTransformTypes {
		if strings.HasPrefix(line, transform) {
			return &PBRTStatement{
				Type:       transform,
				Parameters: map[string]PBRTParam{"values": {Type: "float", Values: strings.Fields(line[len(transform):])}},
			}, nil
		}
	}

	parts := tokenizePBRT(line)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid statement format")
	}

	stmt := &PBRTStatement{Type: parts[0], Parameters: make(map[string]PBRTParam)}

	if strings.HasPrefix(parts[1], "\"") && strings.HasSuffix(parts[1], "\"") {
		stmt.Subtype = strings.Trim(parts[1], "\"")
		parts = parts[2:]
	} else {
		parts = parts[1:]
	}

	for i := 0; i < len(parts); {
		if !strings.HasPrefix(parts[i], "\"") {
			i++
			continue
		}

		paramParts := strings.Fields(strings.Trim(parts[i], "\""))
		if len(paramParts) != 2 {
			i++
			continue
		}
		paramType, paramName := paramParts[0], paramParts[1]
		i++

		var values []string
		if i < len(parts) {
			if strings.HasPrefix(parts[i], "[") && strings.HasSuffix(parts[i], "]") {
				values = strings.Fields(strings.Trim(parts[i], "[] "))
			} else {
				values = []string{parts[i]}
			}
			i++
		}

		stmt.Parameters[paramName] = PBRTParam{Type: paramType, Values: values}
	}

	return stmt, nil
}

// GetFloatParam extracts a float parameter from a PBRT statement
func (stmt *PBRTStatement) GetFloatParam(name string) (float64, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return 0, false
	}
	val, err := strconv.ParseFloat(param.Values[0], 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// GetRGBParam extracts an RGB color parameter from a PBRT statement
func (stmt *PBRTStatement) GetRGBParam(name string) (*core.Vec3, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) < 3 {
		return nil, false
	}
	r, err1 := strconv.ParseFloat(param.Values[0], 64)
	g, err2 := strconv.ParseFloat(param.Values[1], 64)
	b, err3 := strconv.ParseFloat(param.Values[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, false
	}
	return &core.Vec3{X: r, Y: g, Z: b}, true
}

// IsAreaLight checks if a shape statement is marked as an area light
func (stmt *PBRTStatement) IsAreaLight() bool {
	param, exists := stmt.Parameters["_areaLight"]
	return exists && len(param.Values) > 0 && param.Values[0] == "true"
}

// GetPoint3Param extracts a point3 parameter from a PBRT statement
func (stmt *PBRTStatement) GetPoint3Param(name string) (*core.Vec3, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) < 3 {
		return nil, false
	}
	x, err1 := strconv.ParseFloat(param.Values[0], 64)
	y, err2 := strconv.ParseFloat(param.Values[1], 64)
	z, err3 := strconv.ParseFloat(param.Values[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, false
	}
	return &core.Vec3{X: x, Y: y, Z: z}, true
}

// GetStringParam extracts a string parameter from a PBRT statement
func (stmt *PBRTStatement) GetStringParam(name string) (string, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return "", false
	}
	return param.Values[0], true
}

// pbrtStatementTypes are the directives that begin a new statement; any
// other non-empty line is a continuation of the previous one.
var pbrtStatementTypes = []string{
	"Camera", "Film", "Sampler", "Integrator", "LookAt",
	"Material", "Shape", "LightSource", "AreaLightSource",
	"Translate", "Rotate", "Scale", "Transform",
	"ReverseOrientation", "Attribute",
}

func isStatementStart(line string) bool {
	for _, stmt := range pbrtStatementTypes {
		if strings.HasPrefix(line, stmt+" ") || line == stmt {
			return true
		}
	}
	return false
}
