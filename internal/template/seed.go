package template

// DefaultTemplate returns the faculty's standard course-load certificate
// template. Deployments override it through the template store.
func DefaultTemplate() *CertificateTemplate {
	return &CertificateTemplate{
		TemplateID:     "default",
		Name:           "Constancia de Carga Académica",
		Description:    "Plantilla estándar de constancia de carga académica",
		Layout:         "standard",
		DepartmentName: "Facultad de Ciencias Físico Matemáticas",
		UniversityName: "Benemérita Universidad Autónoma de Puebla",
		Address: "Av. San Claudio y 18 Sur, edif. FM1\n" +
			"Ciudad Universitaria, Col. San Manuel, Puebla, Pue. C.P. 72570\n" +
			"01 (222) 229 55 00 Ext. 7550 y 7552",
		TitleText:     "CONSTANCIA DE CARGA ACADÉMICA",
		RecipientLine: "A QUIEN CORRESPONDA",
		IntroText: "El que suscribe, {secretary_name}, {secretary_title} de la " +
			"{department_name}, de la {university_name}, por este medio hace " +
			"constar que el Profesor Investigador:",
		CoursesIntro: "Impartió los siguientes cursos:",
		ClosingText: "Se expide la presente para los fines legales que el " +
			"interesado estime necesarios.",
		SecretaryName:      "Dr. José Piña",
		SecretaryTitle:     "Secretario Académico",
		VerificationText:   "Verifique la autenticidad de este documento en:",
		UniversityMotto:    `"Pensar bien, para vivir mejor"`,
		IncludeQRByDefault: true,
		IsDefault:          true,
	}
}
