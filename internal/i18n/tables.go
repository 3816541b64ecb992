package i18n

var english = map[Key]string{
	FieldFirstName:         "First Name",
	FieldLastName:          "Last Name",
	FieldJobTitle:          "Job Title",
	FieldDepartment:        "Department",
	FieldAddress:           "Address",
	FieldPhone:             "Phone",
	FieldEmail:             "Email",
	FieldNationality:       "Nationality",
	FieldBirthDate:         "Birth Date",
	FieldAdmissionDate:     "Admission Date",
	FieldSalary:            "Salary",
	FieldProfilePictureURL: "Profile Picture",
	FieldIsTerminated:      "Terminated",

	NoticeUserRegistered:        "User registered successfully!",
	NoticeUserLoggedIn:          "User logged in successfully!",
	NoticePasswordMismatch:      "Password do not match",
	NoticeEmployeeRegistered:    "Employee registered successfully!",
	NoticeEmployeeRegisterFail:  "Error registering employee. Please try again.",
	NoticeEmployeeLoadFail:      "Error loading employee data.",
	NoticeEmployeeUpdated:       "Employee data updated successfully!",
	NoticeEmployeeUpdateFail:    "Error updating employee data. Please try again.",
	NoticePromoteMissingFields:  "Please fill in all required fields.",
	NoticePromoted:              "Employee updated successfully!",
	NoticePromoteFail:           "Could not update the employee.",
	NoticeTerminated:            "Employee terminated successfully!",
	NoticeTerminateFail:         "Could not terminate the employee.",
	NoticeDeleted:               "Employee deleted successfully!",
	NoticeDeleteFail:            "Could not delete the employee.",
	NoticeRefreshFail:           "Could not load employees. Showing the last known list.",
	NoticeMutationInFlight:      "Another action on this employee is still running.",
	NoticeCVArchiveUnavailable:  "Archived CV is not available.",
	DashboardTitle:              "Employee Dashboard",
	DashboardTerminatedMarker:   "Terminated",
	DashboardPositionLabel:      "Position",
	DashboardDepartmentLabel:    "Department",
	DashboardPromoteModalTitle:  "Update Employee",
	DashboardPromoteModalSubmit: "Update Position and Department",

	CVTitle:             "Curriculum Vitae",
	CVPreviewTitle:      "CV Preview",
	CVEmploymentHeading: "Employee Information",
	CVHistoryHeading:    "History",
	CVName:              "Name",
	CVPhone:             "Phone",
	CVEmail:             "Email",
	CVAddress:           "Address",
	CVJobTitle:          "Job Title",
	CVDepartment:        "Department",
	CVStartDate:         "Start Date",
	CVStatus:            "Status",
	CVID:                "ID",
	CVStatusActive:      "Active",
	CVStatusTerminated:  "Terminated",
	CVNoHistory:         "No history available.",
	CVPlaceholder:       "N/A",
	CVDownload:          "Download CV",
}

var portuguese = map[Key]string{
	FieldFirstName:         "Nome",
	FieldLastName:          "Sobrenome",
	FieldJobTitle:          "Cargo",
	FieldDepartment:        "Setor",
	FieldAddress:           "Endereço",
	FieldPhone:             "Telefone",
	FieldEmail:             "E-mail",
	FieldNationality:       "Nacionalidade",
	FieldBirthDate:         "Data de Nascimento",
	FieldAdmissionDate:     "Data de Admissão",
	FieldSalary:            "Salário",
	FieldProfilePictureURL: "Foto de Perfil",
	FieldIsTerminated:      "Demitido",

	NoticeUserRegistered:        "Usuário cadastrado com sucesso!",
	NoticeUserLoggedIn:          "Usuário conectado com sucesso!",
	NoticePasswordMismatch:      "As senhas não coincidem",
	NoticeEmployeeRegistered:    "Funcionário cadastrado com sucesso!",
	NoticeEmployeeRegisterFail:  "Erro ao cadastrar funcionário. Tente novamente.",
	NoticeEmployeeLoadFail:      "Erro ao carregar os dados do funcionário.",
	NoticeEmployeeUpdated:       "Dados do funcionário atualizados com sucesso!",
	NoticeEmployeeUpdateFail:    "Erro ao atualizar os dados do funcionário. Tente novamente.",
	NoticePromoteMissingFields:  "Por favor, preencha todos os campos obrigatórios.",
	NoticePromoted:              "Funcionário atualizado com sucesso!",
	NoticePromoteFail:           "Não foi possível atualizar o funcionário.",
	NoticeTerminated:            "Funcionário demitido com sucesso!",
	NoticeTerminateFail:         "Não foi possível demitir o funcionário.",
	NoticeDeleted:               "Funcionário excluído com sucesso!",
	NoticeDeleteFail:            "Não foi possível excluir o funcionário.",
	NoticeRefreshFail:           "Não foi possível carregar os funcionários. Exibindo a última lista.",
	NoticeMutationInFlight:      "Outra ação neste funcionário ainda está em andamento.",
	NoticeCVArchiveUnavailable:  "O currículo arquivado não está disponível.",
	DashboardTitle:              "Painel de Funcionários",
	DashboardTerminatedMarker:   "Demitido",
	DashboardPositionLabel:      "Cargo",
	DashboardDepartmentLabel:    "Setor",
	DashboardPromoteModalTitle:  "Atualizar Funcionário",
	DashboardPromoteModalSubmit: "Atualizar Cargo e Setor",

	CVTitle:             "Currículo",
	CVPreviewTitle:      "Pré-visualização do Currículo",
	CVEmploymentHeading: "Informações do Funcionário",
	CVHistoryHeading:    "Histórico",
	CVName:              "Nome",
	CVPhone:             "Telefone",
	CVEmail:             "E-mail",
	CVAddress:           "Endereço",
	CVJobTitle:          "Cargo",
	CVDepartment:        "Setor",
	CVStartDate:         "Data de Admissão",
	CVStatus:            "Situação",
	CVID:                "ID",
	CVStatusActive:      "Ativo",
	CVStatusTerminated:  "Demitido",
	CVNoHistory:         "Nenhum histórico disponível.",
	CVPlaceholder:       "Não informado",
	CVDownload:          "Baixar Currículo",
}
