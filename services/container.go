package services

import "github.com/robot-chappi/cloud-storage-chappic-back-end/repositories"

type Container struct {
	Auth     AuthService
	User     UserService
	File     FileService
	Document DocumentService
}

func NewContainer(repos repositories.Container, paths StoragePaths) *Container {
	return &Container{
		Auth:     NewAuthService(repos.Users),
		User:     NewUserService(repos.Users, paths),
		File:     NewFileService(repos.TxManager, repos.Users, repos.Files, paths),
		Document: NewDocumentService(repos.TxManager, repos.Users, repos.Documents, repos.PublicDocs, paths),
	}
}
