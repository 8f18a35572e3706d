package progress

import "github.com/asteroid-belt/studydeck/internal/models"

// For returns the static syllabus of a subject and whether one exists.
func For(subject models.Subject) (Syllabus, bool) {
	s, ok := syllabi[subject]
	return s, ok
}

var syllabi = map[models.Subject]Syllabus{
	models.SubjectMaths: {
		ClassXI: []Topic{
			{Name: "Sets, Relations and Functions", Weight: 3},
			{Name: "Trigonometric Functions", Weight: 3},
			{Name: "Complex Numbers and Quadratic Equations", Weight: 4},
			{Name: "Linear Inequalities", Weight: 1},
			{Name: "Permutations and Combinations", Weight: 3},
			{Name: "Binomial Theorem", Weight: 2},
			{Name: "Sequences and Series", Weight: 4},
			{Name: "Straight Lines", Weight: 3},
			{Name: "Conic Sections", Weight: 5},
			{Name: "Limits and Derivatives", Weight: 3},
			{Name: "Statistics", Weight: 2},
			{Name: "Probability", Weight: 2},
		},
		ClassXII: []Topic{
			{Name: "Relations and Functions", Weight: 2},
			{Name: "Inverse Trigonometric Functions", Weight: 2},
			{Name: "Matrices and Determinants", Weight: 5},
			{Name: "Continuity and Differentiability", Weight: 4},
			{Name: "Application of Derivatives", Weight: 3},
			{Name: "Integrals", Weight: 5},
			{Name: "Application of Integrals", Weight: 2},
			{Name: "Differential Equations", Weight: 3},
			{Name: "Vector Algebra", Weight: 4},
			{Name: "Three Dimensional Geometry", Weight: 4},
			{Name: "Probability Distributions", Weight: 3},
		},
	},
	models.SubjectPhysics: {
		ClassXI: []Topic{
			{Name: "Units and Measurements", Weight: 2},
			{Name: "Kinematics", Weight: 3},
			{Name: "Laws of Motion", Weight: 3},
			{Name: "Work, Energy and Power", Weight: 3},
			{Name: "Rotational Motion", Weight: 4},
			{Name: "Gravitation", Weight: 2},
			{Name: "Properties of Solids and Liquids", Weight: 3},
			{Name: "Thermodynamics", Weight: 3},
			{Name: "Kinetic Theory of Gases", Weight: 2},
			{Name: "Oscillations", Weight: 2},
			{Name: "Waves", Weight: 2},
		},
		ClassXII: []Topic{
			{Name: "Electrostatics", Weight: 4},
			{Name: "Current Electricity", Weight: 4},
			{Name: "Magnetic Effects of Current and Magnetism", Weight: 4},
			{Name: "Electromagnetic Induction and Alternating Currents", Weight: 3},
			{Name: "Electromagnetic Waves", Weight: 1},
			{Name: "Ray Optics", Weight: 3},
			{Name: "Wave Optics", Weight: 2},
			{Name: "Dual Nature of Matter and Radiation", Weight: 2},
			{Name: "Atoms and Nuclei", Weight: 3},
			{Name: "Semiconductor Electronics", Weight: 3},
		},
	},
	models.SubjectChemistry: {
		ClassXI: []Topic{
			{Name: "Some Basic Concepts of Chemistry", Weight: 2},
			{Name: "Structure of Atom", Weight: 3},
			{Name: "Classification of Elements and Periodicity", Weight: 2},
			{Name: "Chemical Bonding and Molecular Structure", Weight: 4},
			{Name: "Chemical Thermodynamics", Weight: 3},
			{Name: "Equilibrium", Weight: 3},
			{Name: "Redox Reactions", Weight: 1},
			{Name: "p-Block Elements (Groups 13 and 14)", Weight: 2},
			{Name: "Organic Chemistry: Basic Principles", Weight: 4},
			{Name: "Hydrocarbons", Weight: 3},
		},
		ClassXII: []Topic{
			{Name: "Solutions", Weight: 2},
			{Name: "Electrochemistry", Weight: 3},
			{Name: "Chemical Kinetics", Weight: 3},
			{Name: "p-Block Elements (Groups 15 to 18)", Weight: 3},
			{Name: "d- and f-Block Elements", Weight: 2},
			{Name: "Coordination Compounds", Weight: 4},
			{Name: "Haloalkanes and Haloarenes", Weight: 2},
			{Name: "Alcohols, Phenols and Ethers", Weight: 3},
			{Name: "Aldehydes, Ketones and Carboxylic Acids", Weight: 3},
			{Name: "Amines", Weight: 2},
			{Name: "Biomolecules", Weight: 2},
		},
	},
}
