package seed

var (
	firstNames = []string{
		"James", "Sarah", "Michael", "Emily", "David", "Jessica", "Robert", "Ashley",
		"William", "Amanda", "Richard", "Nicole", "Thomas", "Laura", "Daniel", "Rachel",
	}

	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Martinez", "Wilson", "Anderson", "Taylor", "Moore", "Jackson", "Lee", "Clark",
	}

	companies = []string{
		"TechCorp", "InnovateSoft", "DataDynamics", "CloudNine Systems", "Quantum Labs",
		"Digital Frontier", "CodeCraft", "ByteWorks", "Nexus Technologies", "Apex Software",
	}

	locations = []string{
		"New York, NY", "San Francisco, CA", "Seattle, WA", "Austin, TX", "Boston, MA",
		"Chicago, IL", "Denver, CO", "Remote", "Hybrid - New York", "Hybrid - Austin",
	}

	fields = []string{
		"Software Development", "Data Science", "Product Management", "Design",
		"Marketing", "Cybersecurity", "Cloud & Infrastructure",
	}

	titlesByField = map[string][]string{
		"Software Development": {
			"Senior Software Engineer", "Full Stack Developer", "Frontend Developer",
			"Backend Developer", "Platform Engineer", "Mobile Developer",
		},
		"Data Science": {
			"Data Scientist", "Machine Learning Engineer", "Data Analyst", "Data Engineer",
		},
		"Product Management": {
			"Product Manager", "Technical Product Manager", "Product Owner",
		},
		"Design": {
			"UX Designer", "Product Designer", "UX Researcher", "Design Lead",
		},
		"Marketing": {
			"Marketing Manager", "SEO Specialist", "Growth Marketing Manager", "Content Strategist",
		},
		"Cybersecurity": {
			"Security Engineer", "Security Analyst", "Penetration Tester",
		},
		"Cloud & Infrastructure": {
			"Cloud Engineer", "Site Reliability Engineer", "Infrastructure Engineer",
		},
	}

	skillsByField = map[string][]string{
		"Software Development": {
			"JavaScript", "TypeScript", "React", "Node.js", "Python", "Java", "Go", "Rust",
			"SQL", "MongoDB", "PostgreSQL", "Redis", "Docker", "Kubernetes", "AWS", "GraphQL",
		},
		"Data Science": {
			"Python", "R", "SQL", "TensorFlow", "PyTorch", "Pandas", "Spark",
			"Tableau", "Statistics", "Machine Learning", "NLP", "A/B Testing",
		},
		"Product Management": {
			"Agile", "Scrum", "JIRA", "Product Strategy", "User Research", "Roadmapping", "SQL", "Figma",
		},
		"Design": {
			"Figma", "Sketch", "Prototyping", "User Research", "Wireframing", "Design Systems", "HTML", "CSS",
		},
		"Marketing": {
			"Google Analytics", "SEO", "SEM", "Content Marketing", "HubSpot", "Copywriting", "A/B Testing",
		},
		"Cybersecurity": {
			"Network Security", "Penetration Testing", "SIEM", "Firewalls", "Python", "Linux",
		},
		"Cloud & Infrastructure": {
			"AWS", "Azure", "GCP", "Terraform", "Ansible", "Docker", "Kubernetes", "Linux", "Prometheus",
		},
	}

	intros = []string{
		"We are looking for a talented %s to join our growing team at %s.",
		"%[2]s is seeking an experienced %[1]s to help us scale our platform.",
		"Join %[2]s as a %[1]s and make an impact from day one!",
	}

	bodies = []string{
		"In this role you will design, build and maintain solutions that drive the business forward, working closely with cross-functional teams.",
		"You will work on challenging problems, mentor teammates and contribute to architectural decisions.",
		"This is an opportunity to join a dynamic team working on new projects across the whole delivery lifecycle.",
	}
)
