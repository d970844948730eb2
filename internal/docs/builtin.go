package docs

// Builtin returns the curated seed index. cmd/docsgen starts from this data
// when building a snapshot; a future generator may scrape the vendor help
// site instead, but the serving contract is identical either way.
func Builtin() *Index {
	return &Index{
		APITopics: map[string]APITopic{
			"ExtrudeFeatures": {
				Description: "Create extrusions from profiles",
				Methods: map[string]MethodDoc{
					"createInput": {
						Description: "Creates an input object for an extrude feature",
						Parameters:  "profile, operation",
						Returns:     "ExtrudeFeatureInput",
						Example:     "extrudeInput = extrudes.createInput(profile, adsk.fusion.FeatureOperations.NewBodyFeatureOperation)",
					},
					"add": {
						Description: "Creates an extrude feature",
						Parameters:  "input",
						Returns:     "ExtrudeFeature",
						Example:     "extrudeFeature = extrudes.add(extrudeInput)",
					},
				},
				CommonErrors: []string{
					"Profile must be closed for solid extrusion",
					"Cannot extrude a profile with zero area",
					"Profile must be on a single plane",
				},
				BestPractices: []string{
					"Always validate that profiles exist before extruding",
					"Use ValueInput.createByReal() for simple distances",
					"Use ValueInput.createByString() for values with units",
				},
			},
			"RevolveFeatures": {
				Description: "Create revolved features from profiles",
				Methods: map[string]MethodDoc{
					"createInput": {
						Description: "Creates an input object for a revolve feature",
						Parameters:  "profile, axis, operation",
						Returns:     "RevolveFeatureInput",
						Example:     "revolveInput = revolves.createInput(profile, axis, adsk.fusion.FeatureOperations.NewBodyFeatureOperation)",
					},
					"add": {
						Description: "Creates a revolve feature",
						Parameters:  "input",
						Returns:     "RevolveFeature",
						Example:     "revolveFeature = revolves.add(revolveInput)",
					},
				},
				CommonErrors: []string{
					"Axis cannot be tangent to the profile (ERROR 3: ASM_PATH_TANGENT)",
					"Axis cannot intersect the profile boundary",
					"Profile must be closed for solid revolution",
					"Revolution angle must be greater than zero",
				},
				BestPractices: []string{
					"Always check axis position relative to profile",
					"For full revolutions, use an angle of 360 degrees",
					"For partial revolutions, use setAngleExtent() on the input object",
				},
			},
			"Sketches": {
				Description: "Create and manage sketches on planes or planar faces",
				Methods: map[string]MethodDoc{
					"add": {
						Description: "Creates a new sketch on a plane or face",
						Parameters:  "planarEntity",
						Returns:     "Sketch",
						Example:     "sketch = sketches.add(planeXY)",
					},
				},
				CommonErrors: []string{
					"Can only create sketch on planar surface or face",
					"Profile collection may be empty if sketch is not properly constrained",
				},
				BestPractices: []string{
					"Always check if sketch contains profiles before using them",
					"Use sketch constraints to fully define important sketches",
					"For construction geometry, set isConstruction property to true",
				},
			},
		},
		ErrorCodes: map[string]ErrorCode{
			"ASM_PATH_TANGENT": {
				Code:     "ERROR 3: ASM_PATH_TANGENT",
				Message:  "The path is tangent to the profile. Try adjusting the path or rotating the profile.",
				Context:  "Revolve operations",
				Solution: "Ensure the revolution axis is not tangent to any part of the profile. Move the axis away from the profile boundary.",
			},
			"PROFILE_NOT_CLOSED": {
				Code:     "Failed to create extrude",
				Message:  "The profile is not closed or has zero area",
				Context:  "Extrude operations",
				Solution: "Verify the sketch contains closed profiles with non-zero area. Check for small gaps in the sketch.",
			},
			"NULL_OBJECT_REFERENCE": {
				Code:     "NULL_OBJECT_REFERENCE",
				Message:  "A null object was referenced",
				Context:  "General API usage",
				Solution: "Always check if objects exist before trying to use them. Use defensive programming with null checks.",
			},
		},
		CodePatterns: map[string]CodePattern{
			"error_handling": {
				Title:       "Error Handling",
				Description: "Always implement proper error handling in CAD API code",
				Example: `def run(context):
    ui = None
    try:
        app = adsk.core.Application.get()
        ui = app.userInterface
        # Your code here
    except:
        if ui:
            ui.messageBox('Failed:\n{}'.format(traceback.format_exc()))`,
			},
			"validation": {
				Title:       "Input Validation",
				Description: "Always validate inputs before performing operations",
				Example: `# Check if sketch has profiles before extruding
if sketch.profiles.count > 0:
    profile = sketch.profiles.item(0)
    # Proceed with extrude
else:
    ui.messageBox('No valid profiles found in sketch')`,
			},
			"revolve_safety": {
				Title:       "Safe Revolve Operations",
				Description: "Ensure revolve axes won't cause tangent errors",
				Example: `# Create a safe revolution axis away from the profile
axis = sketch.sketchCurves.sketchLines.addByTwoPoints(
    adsk.core.Point3D.create(-10, 0, 0),
    adsk.core.Point3D.create(10, 0, 0)
)
axis.isConstruction = True`,
			},
		},
	}
}
