package catalog

// PortabilitySubsetGuard is the guard name of the portability subset
// extension, only meaningful on targets that ship the portability headers.
const PortabilitySubsetGuard = "VK_EXTX_portability_subset"

// defaultVersions lists the core revisions whose versioned structures are
// probed. The Vulkan11 structures are new in Vulkan 1.2, not 1.1, hence the
// 1.2.0 device version on both entries.
var defaultVersions = []CoreVersion{
	{DeviceVersion: MakeVersion(1, 2, 0), StructVersion: StructVersion{Major: 1, Minor: 1}},
	{DeviceVersion: MakeVersion(1, 2, 0), StructVersion: StructVersion{Major: 1, Minor: 2}},
}

var defaultExtensions = []Extension{
	{
		Name:     "VK_KHR_maintenance1",
		Required: true,
	},
	{
		Name: "VK_KHR_external_memory",
	},
	{
		Name: "VK_KHR_external_memory_fd",
	},
	{
		Name: "VK_KHR_vulkan_memory_model",
	},
	{
		Name:        "VK_EXT_conditional_rendering",
		Alias:       "cond_render",
		HasFeatures: true,
		Conditions:  []Clause{FeatureFlag("conditionalRendering")},
	},
	{
		Name:          "VK_EXT_transform_feedback",
		Alias:         "tf",
		HasFeatures:   true,
		HasProperties: true,
		Conditions:    []Clause{FeatureFlag("transformFeedback")},
	},
	{
		Name:        "VK_EXT_index_type_uint8",
		Alias:       "index_uint8",
		HasFeatures: true,
		Conditions:  []Clause{FeatureFlag("indexTypeUint8")},
	},
	{
		Name:          "VK_EXT_robustness2",
		Alias:         "rb2",
		HasFeatures:   true,
		HasProperties: true,
		Conditions:    []Clause{FeatureFlag("nullDescriptor")},
	},
	{
		Name:          "VK_EXT_vertex_attribute_divisor",
		Alias:         "vdiv",
		HasFeatures:   true,
		HasProperties: true,
		Conditions:    []Clause{FeatureFlag("vertexAttributeInstanceRateDivisor")},
	},
	{
		Name: "VK_EXT_calibrated_timestamps",
	},
	{
		Name:          "VK_EXT_custom_border_color",
		Alias:         "border_color",
		HasFeatures:   true,
		HasProperties: true,
		Conditions:    []Clause{FeatureFlag("customBorderColors")},
	},
	{
		Name:          "VK_EXT_blend_operation_advanced",
		Alias:         "blend",
		HasProperties: true,
		Conditions: []Clause{
			PropertyFlag("advancedBlendNonPremultipliedSrcColor"),
			PropertyFlag("advancedBlendNonPremultipliedDstColor"),
		},
	},
	{
		Name:        "VK_EXT_extended_dynamic_state",
		Alias:       "dynamic_state",
		HasFeatures: true,
		Conditions:  []Clause{FeatureFlag("extendedDynamicState")},
	},
	{
		Name:        "VK_EXT_pipeline_creation_cache_control",
		Alias:       "pipeline_cache_control",
		HasFeatures: true,
		Conditions:  []Clause{FeatureFlag("pipelineCreationCacheControl")},
	},
	{
		Name: "VK_EXT_shader_stencil_export",
	},
	{
		Name:          "VK_EXTX_portability_subset",
		Alias:         "portability_subset_extx",
		HasFeatures:   true,
		HasProperties: true,
		Guarded:       true,
	},
}

// Default returns the built-in catalog. The table is static, so a
// construction failure is a programming error.
func Default() *Catalog {
	c, err := New(defaultVersions, defaultExtensions)
	if err != nil {
		panic(err)
	}
	return c
}
