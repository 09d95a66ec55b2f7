package services

import "github.com/google/generative-ai-go/genai"

const UpdateEdidFormTool = "updateEdidForm"

const edidTemperature float32 = 0.7

const edidSystemInstruction = "You are an expert assistant for embedded systems engineers, specializing in display timings and the EDID specification. " +
	"Your name is 'Eddy'. Answer questions clearly, concisely, and accurately to help users understand the complexities of display standards. " +
	"When a user provides EDID, timing, or colorimetry information, use the `updateEdidForm` tool to populate the form fields. " +
	"Inform the user that you have updated the form."

type fieldDoc struct {
	name        string
	description string
}

// Declaration order is kept so the schema reads like the frontend form.
var edidTimingFields = []fieldDoc{
	{"pixelClock", "Pixel clock in kHz."},
	{"hAddressable", "Horizontal addressable pixels."},
	{"hBlanking", "Horizontal blanking pixels."},
	{"vAddressable", "Vertical addressable lines."},
	{"vBlanking", "Vertical blanking lines."},
	{"refreshRate", "The vertical refresh rate in Hz."},
	{"hFrontPorch", "Horizontal front porch pixels."},
	{"hSyncWidth", "Horizontal sync width pixels."},
	{"vFrontPorch", "Vertical front porch lines."},
	{"vSyncWidth", "Vertical sync width lines."},
	{"hImageSize", "Horizontal image size in mm."},
	{"vImageSize", "Vertical image size in mm."},
	{"hBorder", "Horizontal border pixels."},
	{"vBorder", "Vertical border lines."},
}

var edidColorimetryFields = []fieldDoc{
	{"redX", "CIE 1931 'x' coordinate for the red primary color."},
	{"redY", "CIE 1931 'y' coordinate for the red primary color."},
	{"greenX", "CIE 1931 'x' coordinate for the green primary color."},
	{"greenY", "CIE 1931 'y' coordinate for the green primary color."},
	{"blueX", "CIE 1931 'x' coordinate for the blue primary color."},
	{"blueY", "CIE 1931 'y' coordinate for the blue primary color."},
	{"whiteX", "CIE 1931 'x' coordinate for the display's white point."},
	{"whiteY", "CIE 1931 'y' coordinate for the display's white point."},
}

// updateEdidFormDeclaration returns the single tool offered on every call.
// A fresh value is built each time so callers cannot mutate shared state.
func updateEdidFormDeclaration() *genai.FunctionDeclaration {
	colorimetry := &genai.Schema{
		Type:        genai.TypeObject,
		Description: "CIE 1931 color characteristics.",
		Properties:  numberProperties(edidColorimetryFields),
	}

	props := numberProperties(edidTimingFields)
	props["displayName"] = &genai.Schema{Type: genai.TypeString, Description: "The name of the display monitor."}
	props["colorimetry"] = colorimetry

	return &genai.FunctionDeclaration{
		Name:        UpdateEdidFormTool,
		Description: "Updates the EDID parameter form with the provided values. Use this when the user provides specific timing or color information to populate the form.",
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: props,
		},
	}
}

func numberProperties(fields []fieldDoc) map[string]*genai.Schema {
	props := make(map[string]*genai.Schema, len(fields)+2)
	for _, f := range fields {
		props[f.name] = &genai.Schema{Type: genai.TypeNumber, Description: f.description}
	}
	return props
}

func edidTools() []*genai.Tool {
	return []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{updateEdidFormDeclaration()},
	}}
}
